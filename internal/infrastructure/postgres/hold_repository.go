package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/hold"
)

type holdRow struct {
	ID        string    `db:"id"`
	ShowID    string    `db:"show_id"`
	HolderID  string    `db:"holder_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

type HoldRepository struct{ db *sqlx.DB }

func NewHoldRepository(db *sqlx.DB) *HoldRepository {
	return &HoldRepository{db: db}
}

func (r *HoldRepository) Create(ctx context.Context, h *hold.Hold) error {
	query := `INSERT INTO holds (id, show_id, holder_id, created_at, expires_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, h.ID, h.ShowID, h.HolderID, h.CreatedAt, h.ExpiresAt); err != nil {
		return fmt.Errorf("ホールド作成に失敗: %w", err)
	}
	for _, seatID := range h.SeatIDs {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO hold_seats (hold_id, seat_id) VALUES ($1, $2)`, h.ID, seatID); err != nil {
			return fmt.Errorf("ホールド座席関連付けに失敗: %w", err)
		}
	}
	return nil
}

func (r *HoldRepository) GetByID(ctx context.Context, id string) (*hold.Hold, error) {
	var row holdRow
	query := `SELECT id, show_id, holder_id, created_at, expires_at FROM holds WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, hold.ErrHoldNotFound
		}
		return nil, fmt.Errorf("ホールド取得に失敗: %w", err)
	}
	seatIDs, err := r.getSeatIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.toEntity(&row, seatIDs), nil
}

func (r *HoldRepository) Delete(ctx context.Context, id string) error {
	// hold_seats は ON DELETE CASCADE で一緒に消える
	result, err := r.db.ExecContext(ctx, `DELETE FROM holds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ホールド削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return hold.ErrHoldNotFound
	}
	return nil
}

func (r *HoldRepository) ListExpired(ctx context.Context, now time.Time) ([]*hold.Hold, error) {
	var rows []holdRow
	query := `SELECT id, show_id, holder_id, created_at, expires_at FROM holds WHERE expires_at < $1`
	if err := r.db.SelectContext(ctx, &rows, query, now); err != nil {
		return nil, fmt.Errorf("期限切れホールド取得に失敗: %w", err)
	}
	result := make([]*hold.Hold, len(rows))
	for i, row := range rows {
		seatIDs, err := r.getSeatIDs(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		result[i] = r.toEntity(&row, seatIDs)
	}
	return result, nil
}

func (r *HoldRepository) getSeatIDs(ctx context.Context, holdID string) ([]string, error) {
	var seatIDs []string
	if err := r.db.SelectContext(ctx, &seatIDs, `SELECT seat_id FROM hold_seats WHERE hold_id = $1 ORDER BY seat_id`, holdID); err != nil {
		return nil, fmt.Errorf("ホールド座席取得に失敗: %w", err)
	}
	return seatIDs, nil
}

func (r *HoldRepository) toEntity(row *holdRow, seatIDs []string) *hold.Hold {
	return &hold.Hold{
		ID: row.ID, ShowID: row.ShowID, HolderID: row.HolderID,
		SeatIDs: seatIDs, CreatedAt: row.CreatedAt, ExpiresAt: row.ExpiresAt,
	}
}

var _ hold.Repository = (*HoldRepository)(nil)
