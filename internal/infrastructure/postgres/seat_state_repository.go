package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/seat"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/transaction"
)

type seatStateRow struct {
	ShowID        string     `db:"show_id"`
	SeatID        string     `db:"seat_id"`
	Status        string     `db:"status"`
	HoldID        *string    `db:"hold_id"`
	HoldExpiresAt *time.Time `db:"hold_expires_at"`
	TicketID      *string    `db:"ticket_id"`
	UpdatedAt     time.Time  `db:"updated_at"`
	Version       int        `db:"version"`
}

func (r *seatStateRow) toEntity() *seat.SeatShowState {
	return &seat.SeatShowState{
		ShowID: r.ShowID, SeatID: r.SeatID,
		Status: seat.Status(r.Status),
		HoldID: r.HoldID, HoldExpiresAt: r.HoldExpiresAt,
		TicketID: r.TicketID, UpdatedAt: r.UpdatedAt, Version: r.Version,
	}
}

// SeatStateRepository は seat.Registry のPostgreSQL実装
// キーごとの線形化はPostgreSQLの行ロックに委ね、遷移条件はすべて
// WHERE句で表現する（条件を満たさない更新は0行となり競合として扱う）
type SeatStateRepository struct{ db *sqlx.DB }

func NewSeatStateRepository(db *sqlx.DB) *SeatStateRepository {
	return &SeatStateRepository{db: db}
}

// TryHold は available な座席にのみホールドを設定する
// 行が存在しない場合はINSERT、存在する場合は available か期限切れホールドの
// ときのみUPDATEされる。どちらも満たさなければ ErrSeatConflict
func (r *SeatStateRepository) TryHold(ctx context.Context, showID, seatID, holdID string, expiresAt time.Time) error {
	query := `
		INSERT INTO seat_show_states (show_id, seat_id, status, hold_id, hold_expires_at, updated_at, version)
		VALUES ($1, $2, 'held', $3, $4, NOW(), 0)
		ON CONFLICT (show_id, seat_id) DO UPDATE
		SET status = 'held', hold_id = $3, hold_expires_at = $4, ticket_id = NULL,
		    updated_at = NOW(), version = seat_show_states.version + 1
		WHERE seat_show_states.status = 'available'
		   OR (seat_show_states.status = 'held' AND seat_show_states.hold_expires_at <= NOW())`
	result, err := r.db.ExecContext(ctx, query, showID, seatID, holdID, expiresAt)
	if err != nil {
		return fmt.Errorf("座席ホールドに失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return seat.ErrSeatConflict
	}
	return nil
}

// ConfirmHeldSeats は holdID による有効なホールドをまとめて booked に遷移させる
// 更新行数が座席数に満たない場合は ErrInvalidHold を返し、呼び出し側の
// ロールバックで全席が元の状態に戻る
func (r *SeatStateRepository) ConfirmHeldSeats(ctx context.Context, tx transaction.Tx, showID string, seatIDs []string, holdID, ticketID string) error {
	if len(seatIDs) == 0 {
		return nil
	}
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	query := `
		UPDATE seat_show_states
		SET status = 'booked', ticket_id = $1, hold_id = NULL, hold_expires_at = NULL,
		    updated_at = NOW(), version = version + 1
		WHERE show_id = $2 AND seat_id = ANY($3)
		  AND status = 'held' AND hold_id = $4 AND hold_expires_at > NOW()`
	result, err := sqlxTx.ExecContext(ctx, query, ticketID, showID, pq.Array(seatIDs), holdID)
	if err != nil {
		return fmt.Errorf("座席確定に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if int(rows) != len(seatIDs) {
		return seat.ErrInvalidHold
	}
	return nil
}

// ReleaseHold は holdID が一致する held 座席のみを available に戻す
// 0行更新は期限切れ掃除や確定との競合を意味し ErrInvalidHold を返す
func (r *SeatStateRepository) ReleaseHold(ctx context.Context, showID, seatID, holdID string) error {
	query := `
		UPDATE seat_show_states
		SET status = 'available', hold_id = NULL, hold_expires_at = NULL,
		    updated_at = NOW(), version = version + 1
		WHERE show_id = $1 AND seat_id = $2 AND status = 'held' AND hold_id = $3`
	result, err := r.db.ExecContext(ctx, query, showID, seatID, holdID)
	if err != nil {
		return fmt.Errorf("ホールド解放に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return seat.ErrInvalidHold
	}
	return nil
}

func (r *SeatStateRepository) ListBookedSeatIDs(ctx context.Context, showID string) ([]string, error) {
	var seatIDs []string
	query := `SELECT seat_id FROM seat_show_states WHERE show_id = $1 AND status = 'booked' ORDER BY seat_id`
	if err := r.db.SelectContext(ctx, &seatIDs, query, showID); err != nil {
		return nil, fmt.Errorf("予約済み座席取得に失敗: %w", err)
	}
	return seatIDs, nil
}

func (r *SeatStateRepository) ListStates(ctx context.Context, showID string) ([]*seat.SeatShowState, error) {
	var rows []seatStateRow
	query := `SELECT show_id, seat_id, status, hold_id, hold_expires_at, ticket_id, updated_at, version
		FROM seat_show_states WHERE show_id = $1 ORDER BY seat_id`
	if err := r.db.SelectContext(ctx, &rows, query, showID); err != nil {
		return nil, fmt.Errorf("座席状態取得に失敗: %w", err)
	}
	states := make([]*seat.SeatShowState, len(rows))
	for i, row := range rows {
		states[i] = row.toEntity()
	}
	return states, nil
}

var _ seat.Registry = (*SeatStateRepository)(nil)
