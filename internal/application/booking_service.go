package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/catalog"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/hold"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/seat"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-movie-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/pkg/metrics"
)

var (
	// ErrNoSeatsRequested は座席が1つも指定されていない場合のエラー
	ErrNoSeatsRequested = errors.New("座席が指定されていません")
	// ErrDuplicateSeatIDs はリクエスト内で座席IDが重複している場合のエラー
	ErrDuplicateSeatIDs = errors.New("座席IDが重複しています")
)

const (
	seatLockTTL        = 10 * time.Second
	seatLockMaxRetries = 3
	seatLockRetryDelay = 100 * time.Millisecond
	availabilityTTL    = 30 * time.Second
)

// ReserveInput は座席仮押さえのリクエスト
type ReserveInput struct {
	ShowID   string
	SeatIDs  []string
	HolderID string
}

// SeatMapEntry は座席マップの1座席分のビュー
type SeatMapEntry struct {
	SeatID string
	Row    string
	Col    string
	Status seat.Status
}

// BookingService は仮押さえから確定・解放までの予約フローを調整する
//
// 正しさの根拠はストレージ層の条件付き更新（seat.Registry）にあり、
// 分散ロックとキャッシュは競合削減のための任意の最適化として
// nil で無効化できる
type BookingService struct {
	txManager    transaction.Manager
	registry     seat.Registry
	holdRepo     hold.Repository
	ticketRepo   ticket.Repository
	catalogRepo  catalog.Repository
	lockManager  *redisinfra.LockManager
	cache        *redisinfra.AvailabilityCache
	publisher    TicketEventPublisher
	metrics      *metrics.Metrics
	holdDuration time.Duration
}

// NewBookingService は新しいBookingServiceを作成する
// lockManager, cache, publisher, m は nil を許容する
func NewBookingService(
	txManager transaction.Manager,
	registry seat.Registry,
	holdRepo hold.Repository,
	ticketRepo ticket.Repository,
	catalogRepo catalog.Repository,
	lockManager *redisinfra.LockManager,
	cache *redisinfra.AvailabilityCache,
	publisher TicketEventPublisher,
	m *metrics.Metrics,
	holdDuration time.Duration,
) *BookingService {
	return &BookingService{
		txManager:    txManager,
		registry:     registry,
		holdRepo:     holdRepo,
		ticketRepo:   ticketRepo,
		catalogRepo:  catalogRepo,
		lockManager:  lockManager,
		cache:        cache,
		publisher:    publisher,
		metrics:      m,
		holdDuration: holdDuration,
	}
}

// Reserve は指定された座席群を仮押さえし、期限付きホールドを返す
//
// 全席取得できた場合のみ成功（all-or-nothing）。1席でも取れなければ
// 取得済みの席をすべて解放し、競合した座席の一覧を含む
// seat.UnavailableError を返す
func (s *BookingService) Reserve(ctx context.Context, input ReserveInput) (*hold.Hold, error) {
	if len(input.SeatIDs) == 0 {
		s.countHold("invalid")
		return nil, ErrNoSeatsRequested
	}
	if hasDuplicates(input.SeatIDs) {
		s.countHold("invalid")
		return nil, ErrDuplicateSeatIDs
	}

	if _, err := s.catalogRepo.GetShow(ctx, input.ShowID); err != nil {
		return nil, err
	}

	// 座席IDを正規順序でソートしてから取得することでデッドロックを防ぐ
	sorted := make([]string, len(input.SeatIDs))
	copy(sorted, input.SeatIDs)
	sort.Strings(sorted)

	// 分散ロックは同一座席群への同時リクエストの衝突を減らす最適化。
	// 取れなくても処理は続行し、最終的な排他はレジストリが保証する
	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, seatLockKey(input.ShowID, sorted), seatLockTTL, seatLockMaxRetries, seatLockRetryDelay)
		if err == nil {
			defer func() {
				if releaseErr := lock.Release(context.Background()); releaseErr != nil {
					logger.Warn("分散ロックの解放に失敗", zap.Error(releaseErr))
				}
			}()
		} else if !errors.Is(err, redisinfra.ErrLockNotAcquired) {
			logger.Warn("分散ロックの取得でエラー", zap.Error(err))
		}
	}

	h := hold.New(input.ShowID, input.HolderID, sorted, s.holdDuration)
	h.ID = uuid.New().String()
	if err := h.Validate(); err != nil {
		s.countHold("invalid")
		return nil, err
	}

	var acquired, conflicting []string
	for i, seatID := range sorted {
		err := s.registry.TryHold(ctx, input.ShowID, seatID, h.ID, h.ExpiresAt)
		if err == nil {
			acquired = append(acquired, seatID)
			continue
		}
		if !errors.Is(err, seat.ErrSeatConflict) {
			s.releaseSeats(ctx, input.ShowID, acquired, h.ID)
			s.countHold("error")
			return nil, fmt.Errorf("座席の仮押さえに失敗: %w", err)
		}
		// 最初の競合以降は取得せず、残りは読み取りで競合一覧に加える。
		// ソート順で取得を打ち切ることで、先頭座席を持つ側が必ず勝つ
		conflicting = append(conflicting, seatID)
		conflicting = append(conflicting, s.findConflicts(ctx, input.ShowID, sorted[i+1:])...)
		break
	}
	if len(conflicting) > 0 {
		s.releaseSeats(ctx, input.ShowID, acquired, h.ID)
		s.countHold("conflict")
		return nil, &seat.UnavailableError{SeatIDs: conflicting}
	}

	if err := s.holdRepo.Create(ctx, h); err != nil {
		s.releaseSeats(ctx, input.ShowID, sorted, h.ID)
		s.countHold("error")
		return nil, fmt.Errorf("ホールドの保存に失敗: %w", err)
	}

	s.countHold("created")
	if s.metrics != nil {
		s.metrics.ActiveHolds.Inc()
	}
	s.invalidateAvailability(ctx, input.ShowID)

	logger.Info("座席を仮押さえ",
		zap.String("hold_id", h.ID),
		zap.String("show_id", h.ShowID),
		zap.Int("seat_count", len(h.SeatIDs)))
	return h, nil
}

// Confirm はホールドを確定してチケットを発行する
//
// 座席の確定とチケットの保存は同一トランザクションで行われ、
// 途中で失敗した場合は座席は held のまま残る（再試行可能）。
// 期限切れのホールドはその場で解放し hold.ErrHoldExpired を返す
func (s *BookingService) Confirm(ctx context.Context, holdID, userID string) (*ticket.Ticket, error) {
	h, err := s.holdRepo.GetByID(ctx, holdID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if h.IsExpired(now) {
		s.releaseSeats(ctx, h.ShowID, h.SeatIDs, h.ID)
		s.deleteHold(ctx, h)
		return nil, hold.ErrHoldExpired
	}

	show, err := s.catalogRepo.GetShow(ctx, h.ShowID)
	if err != nil {
		return nil, err
	}

	tk := ticket.New(h.ShowID, userID, h.SeatIDs, show.PriceCents)
	tk.ID = uuid.New().String()
	if err := tk.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.registry.ConfirmHeldSeats(ctx, tx, h.ShowID, h.SeatIDs, h.ID, tk.ID); err != nil {
		if errors.Is(err, seat.ErrInvalidHold) {
			// 掃除役と競合して座席がすでに解放されている
			return nil, hold.ErrHoldExpired
		}
		return nil, fmt.Errorf("座席の確定に失敗: %w", err)
	}
	if err := s.ticketRepo.Create(ctx, tx, tk); err != nil {
		return nil, fmt.Errorf("チケットの保存に失敗: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("トランザクションのコミットに失敗: %w", err)
	}

	s.deleteHold(ctx, h)
	if s.metrics != nil {
		s.metrics.TicketsIssuedTotal.Inc()
		s.metrics.ActiveHolds.Dec()
	}
	s.invalidateAvailability(ctx, h.ShowID)
	s.publishIssued(ctx, tk)

	logger.Info("チケットを発行",
		zap.String("ticket_id", tk.ID),
		zap.String("show_id", tk.ShowID),
		zap.Int64("total_amount", tk.TotalAmount))
	return tk, nil
}

// Cancel はホールドを取り消して座席を解放する
// すでに消えたホールドに対しては hold.ErrHoldNotFound を返す
func (s *BookingService) Cancel(ctx context.Context, holdID string) error {
	h, err := s.holdRepo.GetByID(ctx, holdID)
	if err != nil {
		return err
	}

	s.releaseSeats(ctx, h.ShowID, h.SeatIDs, h.ID)
	s.deleteHold(ctx, h)
	if s.metrics != nil {
		s.metrics.ActiveHolds.Dec()
	}
	s.invalidateAvailability(ctx, h.ShowID)

	logger.Info("ホールドを取り消し",
		zap.String("hold_id", h.ID),
		zap.String("show_id", h.ShowID))
	return nil
}

// ReleaseExpiredHolds は期限切れのホールドをすべて解放し、解放件数を返す
// 定期的に掃除役（worker）から呼び出される
func (s *BookingService) ReleaseExpiredHolds(ctx context.Context) (int, error) {
	expired, err := s.holdRepo.ListExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("期限切れホールドの取得に失敗: %w", err)
	}

	released := 0
	for _, h := range expired {
		s.releaseSeats(ctx, h.ShowID, h.SeatIDs, h.ID)
		if err := s.holdRepo.Delete(ctx, h.ID); err != nil {
			// 確定/取消と競合した場合はすでに消えている
			if !errors.Is(err, hold.ErrHoldNotFound) {
				logger.Warn("期限切れホールドの削除に失敗",
					zap.String("hold_id", h.ID), zap.Error(err))
			}
			continue
		}
		released++
		if s.metrics != nil {
			s.metrics.ExpiredHoldsReleasedTotal.Inc()
			s.metrics.ActiveHolds.Dec()
		}
		s.invalidateAvailability(ctx, h.ShowID)
	}

	if released > 0 {
		logger.Info("期限切れホールドを解放", zap.Int("count", released))
	}
	return released, nil
}

// GetSeatMap はショーの座席レイアウトと現在の各座席の状態を返す
// 期限切れのホールドは available として報告される
func (s *BookingService) GetSeatMap(ctx context.Context, showID string) ([]SeatMapEntry, error) {
	show, err := s.catalogRepo.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}
	layout, err := s.catalogRepo.ListHallSeats(ctx, show.HallID)
	if err != nil {
		return nil, fmt.Errorf("座席レイアウトの取得に失敗: %w", err)
	}
	states, err := s.registry.ListStates(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("座席状態の取得に失敗: %w", err)
	}

	stateBySeat := make(map[string]*seat.SeatShowState, len(states))
	for _, st := range states {
		stateBySeat[st.SeatID] = st
	}

	now := time.Now()
	entries := make([]SeatMapEntry, len(layout))
	for i, hs := range layout {
		status := seat.StatusAvailable
		if st, ok := stateBySeat[hs.ID]; ok {
			status = st.EffectiveStatus(now)
		}
		entries[i] = SeatMapEntry{SeatID: hs.ID, Row: hs.Row, Col: hs.Col, Status: status}
	}
	return entries, nil
}

// CountAvailableSeats はショーの空席数を返す
// キャッシュが有効な場合は短いTTLでキャッシュする
func (s *BookingService) CountAvailableSeats(ctx context.Context, showID string) (int, error) {
	if s.cache != nil {
		if count, err := s.cache.GetAvailableCount(ctx, showID); err == nil {
			return count, nil
		} else if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("空席数キャッシュの取得に失敗", zap.Error(err))
		}
	}

	entries, err := s.GetSeatMap(ctx, showID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range entries {
		if e.Status == seat.StatusAvailable {
			count++
		}
	}

	if s.cache != nil {
		if err := s.cache.SetAvailableCount(ctx, showID, count, availabilityTTL); err != nil {
			logger.Warn("空席数キャッシュの保存に失敗", zap.Error(err))
		}
	}
	return count, nil
}

// findConflicts は残りの座席のうち現在確保できないものを返す（読み取りのみ）
// 競合一覧の報告用であり、ここでの結果が取得の成否を左右することはない
func (s *BookingService) findConflicts(ctx context.Context, showID string, seatIDs []string) []string {
	if len(seatIDs) == 0 {
		return nil
	}
	states, err := s.registry.ListStates(ctx, showID)
	if err != nil {
		logger.Warn("座席状態の取得に失敗", zap.String("show_id", showID), zap.Error(err))
		return nil
	}
	bySeat := make(map[string]*seat.SeatShowState, len(states))
	for _, st := range states {
		bySeat[st.SeatID] = st
	}
	now := time.Now()
	var conflicts []string
	for _, seatID := range seatIDs {
		if st, ok := bySeat[seatID]; ok && !st.IsAvailable(now) {
			conflicts = append(conflicts, seatID)
		}
	}
	return conflicts
}

// releaseSeats はホールドに紐づく座席を解放する
// holdID が一致しない座席（別のホールドに奪われた席）は黙ってスキップされる
func (s *BookingService) releaseSeats(ctx context.Context, showID string, seatIDs []string, holdID string) {
	for _, seatID := range seatIDs {
		if err := s.registry.ReleaseHold(ctx, showID, seatID, holdID); err != nil &&
			!errors.Is(err, seat.ErrInvalidHold) {
			logger.Warn("座席の解放に失敗",
				zap.String("show_id", showID),
				zap.String("seat_id", seatID),
				zap.Error(err))
		}
	}
}

func (s *BookingService) deleteHold(ctx context.Context, h *hold.Hold) {
	if err := s.holdRepo.Delete(ctx, h.ID); err != nil && !errors.Is(err, hold.ErrHoldNotFound) {
		logger.Warn("ホールドの削除に失敗", zap.String("hold_id", h.ID), zap.Error(err))
	}
}

func (s *BookingService) invalidateAvailability(ctx context.Context, showID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, showID); err != nil {
		logger.Warn("空席数キャッシュの無効化に失敗", zap.Error(err))
	}
}

func (s *BookingService) publishIssued(ctx context.Context, tk *ticket.Ticket) {
	if s.publisher == nil {
		return
	}
	event := TicketIssuedEvent{
		TicketID:     tk.ID,
		ShowID:       tk.ShowID,
		UserID:       tk.UserID,
		SeatIDs:      tk.SeatIDs,
		TotalAmount:  tk.TotalAmount,
		PurchaseTime: tk.PurchaseTime,
	}
	if err := s.publisher.PublishTicketIssued(ctx, event); err != nil {
		logger.Warn("チケット発行イベントの送信に失敗",
			zap.String("ticket_id", tk.ID), zap.Error(err))
	}
}

func (s *BookingService) countHold(result string) {
	if s.metrics != nil {
		s.metrics.HoldsTotal.WithLabelValues(result).Inc()
	}
}

func seatLockKey(showID string, sortedSeatIDs []string) string {
	return "seats:" + showID + ":" + strings.Join(sortedSeatIDs, ",")
}

func hasDuplicates(seatIDs []string) bool {
	seen := make(map[string]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
