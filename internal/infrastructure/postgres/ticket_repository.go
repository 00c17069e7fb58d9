package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/transaction"
)

type ticketRow struct {
	ID           string    `db:"id"`
	ShowID       string    `db:"show_id"`
	UserID       string    `db:"user_id"`
	TotalAmount  int64     `db:"total_amount"`
	PurchaseTime time.Time `db:"purchase_time"`
}

// TicketRepository はチケット台帳のPostgreSQL実装
// INSERTのみで、確定後のレコードを書き換える操作は持たない
type TicketRepository struct{ db *sqlx.DB }

func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, tx transaction.Tx, t *ticket.Ticket) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	query := `INSERT INTO tickets (id, show_id, user_id, total_amount, purchase_time) VALUES ($1, $2, $3, $4, $5)`
	if _, err := sqlxTx.ExecContext(ctx, query, t.ID, t.ShowID, t.UserID, t.TotalAmount, t.PurchaseTime); err != nil {
		return fmt.Errorf("チケット作成に失敗: %w", err)
	}
	for _, seatID := range t.SeatIDs {
		if _, err := sqlxTx.ExecContext(ctx, `INSERT INTO ticket_seats (ticket_id, seat_id) VALUES ($1, $2)`, t.ID, seatID); err != nil {
			return fmt.Errorf("チケット座席関連付けに失敗: %w", err)
		}
	}
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	var row ticketRow
	query := `SELECT id, show_id, user_id, total_amount, purchase_time FROM tickets WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("チケット取得に失敗: %w", err)
	}
	seatIDs, err := r.getSeatIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.toEntity(&row, seatIDs), nil
}

func (r *TicketRepository) GetByUserID(ctx context.Context, userID string) ([]*ticket.Ticket, error) {
	var rows []ticketRow
	query := `SELECT id, show_id, user_id, total_amount, purchase_time FROM tickets WHERE user_id = $1 ORDER BY purchase_time DESC`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("チケット一覧取得に失敗: %w", err)
	}
	return r.toEntities(ctx, rows)
}

func (r *TicketRepository) GetByShowID(ctx context.Context, showID string) ([]*ticket.Ticket, error) {
	var rows []ticketRow
	query := `SELECT id, show_id, user_id, total_amount, purchase_time FROM tickets WHERE show_id = $1 ORDER BY purchase_time DESC`
	if err := r.db.SelectContext(ctx, &rows, query, showID); err != nil {
		return nil, fmt.Errorf("チケット一覧取得に失敗: %w", err)
	}
	return r.toEntities(ctx, rows)
}

func (r *TicketRepository) getSeatIDs(ctx context.Context, ticketID string) ([]string, error) {
	var seatIDs []string
	if err := r.db.SelectContext(ctx, &seatIDs, `SELECT seat_id FROM ticket_seats WHERE ticket_id = $1 ORDER BY seat_id`, ticketID); err != nil {
		return nil, fmt.Errorf("チケット座席取得に失敗: %w", err)
	}
	return seatIDs, nil
}

func (r *TicketRepository) toEntities(ctx context.Context, rows []ticketRow) ([]*ticket.Ticket, error) {
	result := make([]*ticket.Ticket, len(rows))
	for i, row := range rows {
		seatIDs, err := r.getSeatIDs(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		result[i] = r.toEntity(&row, seatIDs)
	}
	return result, nil
}

func (r *TicketRepository) toEntity(row *ticketRow, seatIDs []string) *ticket.Ticket {
	return &ticket.Ticket{
		ID: row.ID, ShowID: row.ShowID, UserID: row.UserID,
		SeatIDs: seatIDs, TotalAmount: row.TotalAmount, PurchaseTime: row.PurchaseTime,
	}
}

var _ ticket.Repository = (*TicketRepository)(nil)
