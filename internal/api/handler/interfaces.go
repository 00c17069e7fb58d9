package handler

import (
	"context"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/application"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/hold"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/ticket"
)

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	Reserve(ctx context.Context, input application.ReserveInput) (*hold.Hold, error)
	Confirm(ctx context.Context, holdID, userID string) (*ticket.Ticket, error)
	Cancel(ctx context.Context, holdID string) error
	GetSeatMap(ctx context.Context, showID string) ([]application.SeatMapEntry, error)
	CountAvailableSeats(ctx context.Context, showID string) (int, error)
}

// TicketServiceInterface はチケットサービスのインターフェース
type TicketServiceInterface interface {
	GetTicket(ctx context.Context, ticketID string) (*ticket.Ticket, error)
	GetTicketsForUser(ctx context.Context, userID string) ([]*ticket.Ticket, error)
	GetTicketsForShow(ctx context.Context, showID string) ([]*ticket.Ticket, error)
}
