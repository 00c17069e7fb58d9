package hold

import (
	"context"
	"time"
)

// Repository はホールドリポジトリのインターフェース
type Repository interface {
	// Create は新しいホールドを保存し、IDを採番する
	Create(ctx context.Context, h *Hold) error

	// GetByID はIDからホールドを取得する
	GetByID(ctx context.Context, id string) (*Hold, error)

	// Delete はホールドを削除する
	// 存在しない場合は ErrHoldNotFound を返す
	Delete(ctx context.Context, id string) error

	// ListExpired は now 時点で期限切れのホールド一覧を返す
	ListExpired(ctx context.Context, now time.Time) ([]*Hold, error)
}
