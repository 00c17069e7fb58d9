package application

import (
	"context"
	"fmt"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/ticket"
)

// TicketService はチケット台帳への読み取りアクセスを提供する
type TicketService struct {
	ticketRepo ticket.Repository
}

// NewTicketService は新しいTicketServiceを作成する
func NewTicketService(ticketRepo ticket.Repository) *TicketService {
	return &TicketService{ticketRepo: ticketRepo}
}

// GetTicket はIDでチケットを取得する
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*ticket.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, ticketID)
}

// GetTicketsForUser はユーザーの購入済みチケット一覧を返す
func (s *TicketService) GetTicketsForUser(ctx context.Context, userID string) ([]*ticket.Ticket, error) {
	tickets, err := s.ticketRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーのチケット取得に失敗: %w", err)
	}
	return tickets, nil
}

// GetTicketsForShow はショーの発行済みチケット一覧を返す
func (s *TicketService) GetTicketsForShow(ctx context.Context, showID string) ([]*ticket.Ticket, error) {
	tickets, err := s.ticketRepo.GetByShowID(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("ショーのチケット取得に失敗: %w", err)
	}
	return tickets, nil
}
