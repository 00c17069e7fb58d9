package application

import (
	"context"
	"time"
)

// TicketIssuedEvent はチケット発行時に発行されるイベント
type TicketIssuedEvent struct {
	TicketID     string    `json:"ticket_id"`
	ShowID       string    `json:"show_id"`
	UserID       string    `json:"user_id"`
	SeatIDs      []string  `json:"seat_ids"`
	TotalAmount  int64     `json:"total_amount"`
	PurchaseTime time.Time `json:"purchase_time"`
}

// TicketEventPublisher はチケットイベントの発行インターフェース
type TicketEventPublisher interface {
	PublishTicketIssued(ctx context.Context, event TicketIssuedEvent) error
}
