package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache はショーごとの空席数キャッシュを管理する
// 座席マップの読み取りパスでDBへの問い合わせを間引くために使う
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetAvailableCount はショーの空席数をキャッシュから取得する
func (c *AvailabilityCache) GetAvailableCount(ctx context.Context, showID string) (int, error) {
	val, err := c.client.Get(ctx, c.key(showID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableCount はショーの空席数をキャッシュに保存する
func (c *AvailabilityCache) SetAvailableCount(ctx context.Context, showID string, count int, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(showID), count, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はショーのキャッシュを無効化する
// ホールドや確定で座席状態が変わったときに呼ばれる
func (c *AvailabilityCache) Invalidate(ctx context.Context, showID string) error {
	if err := c.client.Del(ctx, c.key(showID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) key(showID string) string {
	return fmt.Sprintf("seats:available:%s", showID)
}
