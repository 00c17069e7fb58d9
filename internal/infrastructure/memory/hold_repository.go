package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/hold"
)

// HoldRepository は hold.Repository のインメモリ実装
type HoldRepository struct {
	mu    sync.RWMutex
	holds map[string]*hold.Hold
}

func NewHoldRepository() *HoldRepository {
	return &HoldRepository{holds: make(map[string]*hold.Hold)}
}

func (r *HoldRepository) Create(ctx context.Context, h *hold.Hold) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	copied := *h
	r.holds[h.ID] = &copied
	return nil
}

func (r *HoldRepository) GetByID(ctx context.Context, id string) (*hold.Hold, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.holds[id]
	if !ok {
		return nil, hold.ErrHoldNotFound
	}
	copied := *h
	return &copied, nil
}

func (r *HoldRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.holds[id]; !ok {
		return hold.ErrHoldNotFound
	}
	delete(r.holds, id)
	return nil
}

func (r *HoldRepository) ListExpired(ctx context.Context, now time.Time) ([]*hold.Hold, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var expired []*hold.Hold
	for _, h := range r.holds {
		if h.IsExpired(now) {
			copied := *h
			expired = append(expired, &copied)
		}
	}
	return expired, nil
}

var _ hold.Repository = (*HoldRepository)(nil)
