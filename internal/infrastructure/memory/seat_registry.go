package memory

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/seat"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/transaction"
)

const shardCount = 64

type stateKey struct {
	showID string
	seatID string
}

type registryShard struct {
	mu     sync.Mutex
	states map[stateKey]*seat.SeatShowState
}

// SeatRegistry は seat.Registry のインメモリ実装
// キーをシャードに分散し、シャード単位のミューテックスで (showID, seatID)
// ごとの遷移を直列化する。無関係な座席同士はブロックし合わない
// ローカル開発（BOOKING_STORE=memory）と並行性テストで使用する
type SeatRegistry struct {
	shards [shardCount]registryShard
}

func NewSeatRegistry() *SeatRegistry {
	r := &SeatRegistry{}
	for i := range r.shards {
		r.shards[i].states = make(map[stateKey]*seat.SeatShowState)
	}
	return r
}

func (r *SeatRegistry) shardIndex(key stateKey) int {
	h := fnv.New32a()
	h.Write([]byte(key.showID))
	h.Write([]byte{0})
	h.Write([]byte(key.seatID))
	return int(h.Sum32() % shardCount)
}

func (r *SeatRegistry) TryHold(ctx context.Context, showID, seatID, holdID string, expiresAt time.Time) error {
	key := stateKey{showID: showID, seatID: seatID}
	shard := &r.shards[r.shardIndex(key)]

	shard.mu.Lock()
	defer shard.mu.Unlock()

	state, ok := shard.states[key]
	if !ok {
		state = seat.NewState(showID, seatID)
		shard.states[key] = state
	}
	return state.TryHold(holdID, expiresAt, time.Now())
}

// ConfirmHeldSeats は対象座席の属するシャードをインデックス順にすべて
// ロックしてから、二段階（全席検証→全席確定）で遷移させる
// ロック順を固定することで並行呼び出し間のデッドロックを防ぐ
func (r *SeatRegistry) ConfirmHeldSeats(ctx context.Context, tx transaction.Tx, showID string, seatIDs []string, holdID, ticketID string) error {
	if len(seatIDs) == 0 {
		return nil
	}

	shardSet := make(map[int]struct{})
	keys := make([]stateKey, len(seatIDs))
	for i, seatID := range seatIDs {
		keys[i] = stateKey{showID: showID, seatID: seatID}
		shardSet[r.shardIndex(keys[i])] = struct{}{}
	}
	indexes := make([]int, 0, len(shardSet))
	for idx := range shardSet {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		r.shards[idx].mu.Lock()
	}
	defer func() {
		for _, idx := range indexes {
			r.shards[idx].mu.Unlock()
		}
	}()

	now := time.Now()
	states := make([]*seat.SeatShowState, len(keys))
	for i, key := range keys {
		state, ok := r.shards[r.shardIndex(key)].states[key]
		if !ok || !state.HeldBy(holdID, now) {
			return seat.ErrInvalidHold
		}
		states[i] = state
	}
	for _, state := range states {
		if err := state.ConfirmHold(holdID, ticketID, now); err != nil {
			// 検証済みのため到達しない
			return err
		}
	}
	return nil
}

func (r *SeatRegistry) ReleaseHold(ctx context.Context, showID, seatID, holdID string) error {
	key := stateKey{showID: showID, seatID: seatID}
	shard := &r.shards[r.shardIndex(key)]

	shard.mu.Lock()
	defer shard.mu.Unlock()

	state, ok := shard.states[key]
	if !ok {
		return seat.ErrInvalidHold
	}
	return state.ReleaseHold(holdID)
}

func (r *SeatRegistry) ListBookedSeatIDs(ctx context.Context, showID string) ([]string, error) {
	var seatIDs []string
	for i := range r.shards {
		shard := &r.shards[i]
		shard.mu.Lock()
		for key, state := range shard.states {
			if key.showID == showID && state.Status == seat.StatusBooked {
				seatIDs = append(seatIDs, key.seatID)
			}
		}
		shard.mu.Unlock()
	}
	sort.Strings(seatIDs)
	return seatIDs, nil
}

func (r *SeatRegistry) ListStates(ctx context.Context, showID string) ([]*seat.SeatShowState, error) {
	var states []*seat.SeatShowState
	for i := range r.shards {
		shard := &r.shards[i]
		shard.mu.Lock()
		for key, state := range shard.states {
			if key.showID == showID {
				copied := *state
				states = append(states, &copied)
			}
		}
		shard.mu.Unlock()
	}
	sort.Slice(states, func(i, j int) bool { return states[i].SeatID < states[j].SeatID })
	return states, nil
}

var _ seat.Registry = (*SeatRegistry)(nil)
