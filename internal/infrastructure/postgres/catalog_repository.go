package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/catalog"
)

type showRow struct {
	ID         string    `db:"id"`
	HallID     string    `db:"hall_id"`
	MovieID    string    `db:"movie_id"`
	StartAt    time.Time `db:"start_at"`
	PriceCents int64     `db:"price_cents"`
}

type hallSeatRow struct {
	ID     string `db:"id"`
	HallID string `db:"hall_id"`
	RowNo  string `db:"row_no"`
	ColNo  string `db:"col_no"`
}

// CatalogRepository はカタログの読み取り専用PostgreSQL実装
// ショーやホールの管理APIは持たない（カタログサービスの責務）
type CatalogRepository struct{ db *sqlx.DB }

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetShow(ctx context.Context, showID string) (*catalog.Show, error) {
	var row showRow
	query := `SELECT id, hall_id, movie_id, start_at, price_cents FROM shows WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, showID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrShowNotFound
		}
		return nil, fmt.Errorf("ショー取得に失敗: %w", err)
	}
	return &catalog.Show{
		ID: row.ID, HallID: row.HallID, MovieID: row.MovieID,
		StartAt: row.StartAt, PriceCents: row.PriceCents,
	}, nil
}

func (r *CatalogRepository) ListHallSeats(ctx context.Context, hallID string) ([]*catalog.HallSeat, error) {
	var rows []hallSeatRow
	query := `SELECT id, hall_id, row_no, col_no FROM hall_seats WHERE hall_id = $1 ORDER BY row_no, col_no`
	if err := r.db.SelectContext(ctx, &rows, query, hallID); err != nil {
		return nil, fmt.Errorf("座席レイアウト取得に失敗: %w", err)
	}
	seats := make([]*catalog.HallSeat, len(rows))
	for i, row := range rows {
		seats[i] = &catalog.HallSeat{ID: row.ID, HallID: row.HallID, Row: row.RowNo, Col: row.ColNo}
	}
	return seats, nil
}

var _ catalog.Repository = (*CatalogRepository)(nil)
