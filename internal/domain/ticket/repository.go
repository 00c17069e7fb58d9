package ticket

import (
	"context"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/transaction"
)

// Repository はチケット台帳のインターフェース
// 追記専用であり、更新操作は提供しない
type Repository interface {
	// Create はチケットを永続化し、IDを採番する（トランザクション必須）
	// 座席確定と同一トランザクションで実行される
	Create(ctx context.Context, tx transaction.Tx, t *Ticket) error

	// GetByID はIDからチケットを取得する
	GetByID(ctx context.Context, id string) (*Ticket, error)

	// GetByUserID はユーザーのチケット一覧を返す
	GetByUserID(ctx context.Context, userID string) ([]*Ticket, error)

	// GetByShowID はショーのチケット一覧を返す
	GetByShowID(ctx context.Context, showID string) ([]*Ticket, error)
}
