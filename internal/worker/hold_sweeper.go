package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/pkg/logger"
)

// ExpiredHoldReleaser は期限切れホールドを解放するインターフェース
type ExpiredHoldReleaser interface {
	ReleaseExpiredHolds(ctx context.Context) (int, error)
}

// HoldSweeper は期限切れホールドを定期的に解放するワーカー
//
// 座席の正しさはストアの遅延回収が保証するため、掃除が遅れても
// 期限切れ座席が確保不能になることはない。掃除はホールドレコードと
// ゲージの整合性を保つための後始末
type HoldSweeper struct {
	bookingService ExpiredHoldReleaser
	interval       time.Duration
	stopCh         chan struct{}
	doneCh         chan struct{}
}

// NewHoldSweeper は新しいスイーパーを作成
func NewHoldSweeper(bs ExpiredHoldReleaser, interval time.Duration) *HoldSweeper {
	return &HoldSweeper{
		bookingService: bs,
		interval:       interval,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start はスイーパーを開始
func (s *HoldSweeper) Start(ctx context.Context) {
	logger.Info("ホールドスイーパー開始", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("ホールドスイーパー停止（コンテキストキャンセル）")
			return
		case <-s.stopCh:
			logger.Info("ホールドスイーパー停止（シグナル受信）")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop はスイーパーを停止し、実行中の掃除の完了を待つ
func (s *HoldSweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

// sweep は1回分の掃除を実行
func (s *HoldSweeper) sweep(ctx context.Context) {
	log := logger.Get()
	log.Debug("期限切れホールドの掃除開始")

	count, err := s.bookingService.ReleaseExpiredHolds(ctx)
	if err != nil {
		log.Error("期限切れホールドの掃除失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("期限切れホールドを解放", zap.Int("count", count))
	} else {
		log.Debug("期限切れホールドなし")
	}
}
