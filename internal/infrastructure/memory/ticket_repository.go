package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/transaction"
)

// TicketRepository は ticket.Repository のインメモリ実装（追記専用）
type TicketRepository struct {
	mu      sync.RWMutex
	tickets []*ticket.Ticket
}

func NewTicketRepository() *TicketRepository {
	return &TicketRepository{}
}

func (r *TicketRepository) Create(ctx context.Context, tx transaction.Tx, t *ticket.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	copied := *t
	r.tickets = append(r.tickets, &copied)
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tickets {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, ticket.ErrTicketNotFound
}

func (r *TicketRepository) GetByUserID(ctx context.Context, userID string) ([]*ticket.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*ticket.Ticket
	for _, t := range r.tickets {
		if t.UserID == userID {
			copied := *t
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *TicketRepository) GetByShowID(ctx context.Context, showID string) ([]*ticket.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*ticket.Ticket
	for _, t := range r.tickets {
		if t.ShowID == showID {
			copied := *t
			result = append(result, &copied)
		}
	}
	return result, nil
}

var _ ticket.Repository = (*TicketRepository)(nil)
