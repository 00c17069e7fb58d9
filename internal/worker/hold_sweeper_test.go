package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockExpiredHoldReleaser はExpiredHoldReleaserのモック
type MockExpiredHoldReleaser struct {
	mock.Mock
}

func (m *MockExpiredHoldReleaser) ReleaseExpiredHolds(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestNewHoldSweeper(t *testing.T) {
	mockService := new(MockExpiredHoldReleaser)
	interval := 30 * time.Second

	sweeper := NewHoldSweeper(mockService, interval)

	assert.NotNil(t, sweeper)
	assert.Equal(t, interval, sweeper.interval)
	assert.NotNil(t, sweeper.stopCh)
	assert.NotNil(t, sweeper.doneCh)
}

func TestHoldSweeper_Sweep(t *testing.T) {
	t.Run("正常に掃除が実行される", func(t *testing.T) {
		mockService := new(MockExpiredHoldReleaser)
		mockService.On("ReleaseExpiredHolds", mock.Anything).Return(3, nil)
		sweeper := NewHoldSweeper(mockService, 30*time.Second)

		sweeper.sweep(context.Background())

		mockService.AssertExpectations(t)
	})

	t.Run("掃除が失敗してもパニックしない", func(t *testing.T) {
		mockService := new(MockExpiredHoldReleaser)
		mockService.On("ReleaseExpiredHolds", mock.Anything).Return(0, errors.New("db error"))
		sweeper := NewHoldSweeper(mockService, 30*time.Second)

		sweeper.sweep(context.Background())

		mockService.AssertExpectations(t)
	})
}

func TestHoldSweeper_StartStop(t *testing.T) {
	mockService := new(MockExpiredHoldReleaser)
	mockService.On("ReleaseExpiredHolds", mock.Anything).Return(0, nil).Maybe()
	sweeper := NewHoldSweeper(mockService, 10*time.Millisecond)

	go sweeper.Start(context.Background())
	time.Sleep(35 * time.Millisecond)
	sweeper.Stop()

	// Stop は実行中のループの終了を待つので、ここに到達すれば停止済み
	mockService.AssertCalled(t, "ReleaseExpiredHolds", mock.Anything)
}

func TestHoldSweeper_ContextCancel(t *testing.T) {
	mockService := new(MockExpiredHoldReleaser)
	sweeper := NewHoldSweeper(mockService, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("コンテキストキャンセルでスイーパーが停止しない")
	}
}
