package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/seat"
)

func TestSeatRegistry_TryHold(t *testing.T) {
	ctx := context.Background()
	expiresAt := time.Now().Add(5 * time.Minute)

	t.Run("未使用の座席をホールドできる", func(t *testing.T) {
		r := NewSeatRegistry()

		err := r.TryHold(ctx, "show-7", "seat-A1", "hold-1", expiresAt)

		require.NoError(t, err)
	})

	t.Run("ホールド済みの座席は競合になる", func(t *testing.T) {
		r := NewSeatRegistry()
		require.NoError(t, r.TryHold(ctx, "show-7", "seat-A1", "hold-1", expiresAt))

		err := r.TryHold(ctx, "show-7", "seat-A1", "hold-2", expiresAt)

		assert.ErrorIs(t, err, seat.ErrSeatConflict)
	})

	t.Run("同じ座席でもショーが違えば独立にホールドできる", func(t *testing.T) {
		r := NewSeatRegistry()
		require.NoError(t, r.TryHold(ctx, "show-7", "seat-A1", "hold-1", expiresAt))

		err := r.TryHold(ctx, "show-8", "seat-A1", "hold-2", expiresAt)

		require.NoError(t, err)
	})

	t.Run("期限切れホールドは上書きできる", func(t *testing.T) {
		r := NewSeatRegistry()
		require.NoError(t, r.TryHold(ctx, "show-7", "seat-A1", "hold-1", time.Now().Add(-time.Second)))

		err := r.TryHold(ctx, "show-7", "seat-A1", "hold-2", expiresAt)

		require.NoError(t, err)
	})
}

func TestSeatRegistry_ConfirmHeldSeats(t *testing.T) {
	ctx := context.Background()
	expiresAt := time.Now().Add(5 * time.Minute)

	t.Run("全席確定できる", func(t *testing.T) {
		r := NewSeatRegistry()
		require.NoError(t, r.TryHold(ctx, "show-7", "seat-A1", "hold-1", expiresAt))
		require.NoError(t, r.TryHold(ctx, "show-7", "seat-A2", "hold-1", expiresAt))

		err := r.ConfirmHeldSeats(ctx, nil, "show-7", []string{"seat-A1", "seat-A2"}, "hold-1", "ticket-1")

		require.NoError(t, err)
		booked, err := r.ListBookedSeatIDs(ctx, "show-7")
		require.NoError(t, err)
		assert.Equal(t, []string{"seat-A1", "seat-A2"}, booked)
	})

	t.Run("一席でも無効なら全席失敗する", func(t *testing.T) {
		r := NewSeatRegistry()
		require.NoError(t, r.TryHold(ctx, "show-7", "seat-A1", "hold-1", expiresAt))
		// seat-A2 は別のホールドが持っている
		require.NoError(t, r.TryHold(ctx, "show-7", "seat-A2", "hold-9", expiresAt))

		err := r.ConfirmHeldSeats(ctx, nil, "show-7", []string{"seat-A1", "seat-A2"}, "hold-1", "ticket-1")

		assert.ErrorIs(t, err, seat.ErrInvalidHold)

		// seat-A1 は held のまま残る
		booked, berr := r.ListBookedSeatIDs(ctx, "show-7")
		require.NoError(t, berr)
		assert.Empty(t, booked)
		states, serr := r.ListStates(ctx, "show-7")
		require.NoError(t, serr)
		for _, s := range states {
			assert.Equal(t, seat.StatusHeld, s.Status)
		}
	})

	t.Run("期限切れホールドは確定できない", func(t *testing.T) {
		r := NewSeatRegistry()
		require.NoError(t, r.TryHold(ctx, "show-7", "seat-A1", "hold-1", time.Now().Add(10*time.Millisecond)))
		time.Sleep(20 * time.Millisecond)

		err := r.ConfirmHeldSeats(ctx, nil, "show-7", []string{"seat-A1"}, "hold-1", "ticket-1")

		assert.ErrorIs(t, err, seat.ErrInvalidHold)
	})
}

func TestSeatRegistry_ReleaseHold(t *testing.T) {
	ctx := context.Background()
	expiresAt := time.Now().Add(5 * time.Minute)

	t.Run("解放後は再ホールドできる", func(t *testing.T) {
		r := NewSeatRegistry()
		require.NoError(t, r.TryHold(ctx, "show-7", "seat-A1", "hold-1", expiresAt))

		require.NoError(t, r.ReleaseHold(ctx, "show-7", "seat-A1", "hold-1"))

		assert.NoError(t, r.TryHold(ctx, "show-7", "seat-A1", "hold-2", expiresAt))
	})

	t.Run("holdIDが一致しない解放は無効", func(t *testing.T) {
		r := NewSeatRegistry()
		require.NoError(t, r.TryHold(ctx, "show-7", "seat-A1", "hold-1", expiresAt))

		err := r.ReleaseHold(ctx, "show-7", "seat-A1", "hold-2")

		assert.ErrorIs(t, err, seat.ErrInvalidHold)
	})

	t.Run("状態のない座席の解放は無効", func(t *testing.T) {
		r := NewSeatRegistry()

		err := r.ReleaseHold(ctx, "show-7", "seat-A1", "hold-1")

		assert.ErrorIs(t, err, seat.ErrInvalidHold)
	})
}

// TestSeatRegistry_ConcurrentTryHold は同一キーへの並行 TryHold が
// ちょうど1件だけ成功することを検証する
func TestSeatRegistry_ConcurrentTryHold(t *testing.T) {
	ctx := context.Background()
	r := NewSeatRegistry()
	expiresAt := time.Now().Add(5 * time.Minute)

	const workers = 100
	var successCount int32
	var conflictCount int32
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := r.TryHold(ctx, "show-7", "seat-A1", fmt.Sprintf("hold-%d", n), expiresAt)
			switch {
			case err == nil:
				atomic.AddInt32(&successCount, 1)
			case err == seat.ErrSeatConflict:
				atomic.AddInt32(&conflictCount, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), successCount)
	assert.Equal(t, int32(workers-1), conflictCount)
}
