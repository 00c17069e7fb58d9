package memory

import (
	"context"
	"sync"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/catalog"
)

// Catalog は catalog.Repository のインメモリ実装
// ローカル開発とテストで、外部カタログサービスの代わりに使う
type Catalog struct {
	mu        sync.RWMutex
	shows     map[string]*catalog.Show
	hallSeats map[string][]*catalog.HallSeat
}

func NewCatalog() *Catalog {
	return &Catalog{
		shows:     make(map[string]*catalog.Show),
		hallSeats: make(map[string][]*catalog.HallSeat),
	}
}

// AddShow はショーを登録する（シード用）
func (c *Catalog) AddShow(s *catalog.Show) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *s
	c.shows[s.ID] = &copied
}

// AddHallSeat はホール座席を登録する（シード用）
func (c *Catalog) AddHallSeat(s *catalog.HallSeat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *s
	c.hallSeats[s.HallID] = append(c.hallSeats[s.HallID], &copied)
}

func (c *Catalog) GetShow(ctx context.Context, showID string) (*catalog.Show, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.shows[showID]
	if !ok {
		return nil, catalog.ErrShowNotFound
	}
	copied := *s
	return &copied, nil
}

func (c *Catalog) ListHallSeats(ctx context.Context, hallID string) ([]*catalog.HallSeat, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seats := make([]*catalog.HallSeat, 0, len(c.hallSeats[hallID]))
	for _, s := range c.hallSeats[hallID] {
		copied := *s
		seats = append(seats, &copied)
	}
	return seats, nil
}

var _ catalog.Repository = (*Catalog)(nil)
