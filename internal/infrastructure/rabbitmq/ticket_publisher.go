package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/application"
)

// TicketPublisher はチケット発行イベントをRabbitMQへ発行する
// 確定後の通知・決済コラボレーターへの引き渡し口であり、発行失敗が
// 予約の成否に影響することはない（呼び出し側でログのみ）
type TicketPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewTicketPublisher は接続を確立し、キューを宣言する
func NewTicketPublisher(url, queue string) (*TicketPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("RabbitMQ接続に失敗: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("チャンネル作成に失敗: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("キュー宣言に失敗: %w", err)
	}
	return &TicketPublisher{conn: conn, channel: ch, queue: queue}, nil
}

// PublishTicketIssued はチケット発行イベントを永続メッセージとして発行する
func (p *TicketPublisher) PublishTicketIssued(ctx context.Context, event application.TicketIssuedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("イベントのシリアライズに失敗: %w", err)
	}
	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("イベント発行に失敗: %w", err)
	}
	return nil
}

// Close は接続を閉じる
func (p *TicketPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

var _ application.TicketEventPublisher = (*TicketPublisher)(nil)
