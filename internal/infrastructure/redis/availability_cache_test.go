package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityCache(t *testing.T) {
	client, err := NewClient(&Config{Host: "localhost", Port: "6379"})
	if err != nil {
		t.Skip("Redis not available")
	}
	defer client.Close()

	ctx := context.Background()
	cache := NewAvailabilityCache(client)

	t.Run("保存した空席数を取得できる", func(t *testing.T) {
		showID := "cache-test-show-1"
		defer cache.Invalidate(ctx, showID)

		require.NoError(t, cache.SetAvailableCount(ctx, showID, 42, time.Minute))

		count, err := cache.GetAvailableCount(ctx, showID)
		require.NoError(t, err)
		assert.Equal(t, 42, count)
	})

	t.Run("存在しないキーはキャッシュミス", func(t *testing.T) {
		_, err := cache.GetAvailableCount(ctx, "cache-test-missing")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("無効化後はキャッシュミスになる", func(t *testing.T) {
		showID := "cache-test-show-2"
		require.NoError(t, cache.SetAvailableCount(ctx, showID, 10, time.Minute))
		require.NoError(t, cache.Invalidate(ctx, showID))

		_, err := cache.GetAvailableCount(ctx, showID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
