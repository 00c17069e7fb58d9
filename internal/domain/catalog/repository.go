package catalog

import "context"

// Repository はカタログサービスへの読み取り専用インターフェース
type Repository interface {
	// GetShow はショーを取得する
	// 存在しない場合は ErrShowNotFound を返す
	GetShow(ctx context.Context, showID string) (*Show, error)

	// ListHallSeats はホールの座席レイアウトを返す
	ListHallSeats(ctx context.Context, hallID string) ([]*HallSeat, error)
}
