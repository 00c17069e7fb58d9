package seat

import (
	"context"
	"time"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/transaction"
)

// Registry は座席ショー状態の唯一の管理者となるインターフェース
// すべての状態遷移は (showID, seatID) キーごとにアトミックかつ線形化可能で
// なければならない。同じキーに対する並行した TryHold が両方成功することはない
type Registry interface {
	// TryHold は座席が available の場合のみホールドを設定する
	// 既に held または booked の場合は ErrSeatConflict を返す
	TryHold(ctx context.Context, showID, seatID, holdID string, expiresAt time.Time) error

	// ConfirmHeldSeats は holdID で有効にホールドされている座席をまとめて
	// booked に遷移させる（トランザクション必須・全件成功か全件失敗）
	// 一席でもホールドが無効なら ErrInvalidHold を返す
	ConfirmHeldSeats(ctx context.Context, tx transaction.Tx, showID string, seatIDs []string, holdID, ticketID string) error

	// ReleaseHold は holdID が一致する場合のみ座席を available に戻す
	// 一致しない場合は ErrInvalidHold（期限切れ掃除との競合では no-op 扱い）
	ReleaseHold(ctx context.Context, showID, seatID, holdID string) error

	// ListBookedSeatIDs はショーの booked 座席IDのスナップショットを返す
	ListBookedSeatIDs(ctx context.Context, showID string) ([]string, error)

	// ListStates はショーに対して状態を持つ座席の一覧を返す
	// 一度も触れられていない座席は含まれない（available とみなす）
	ListStates(ctx context.Context, showID string) ([]*SeatShowState, error)
}
