package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/catalog"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/hold"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/seat"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/transaction"
)

type MockSeatRegistry struct {
	mock.Mock
}

func (m *MockSeatRegistry) TryHold(ctx context.Context, showID, seatID, holdID string, expiresAt time.Time) error {
	args := m.Called(ctx, showID, seatID, holdID, expiresAt)
	return args.Error(0)
}

func (m *MockSeatRegistry) ConfirmHeldSeats(ctx context.Context, tx transaction.Tx, showID string, seatIDs []string, holdID, ticketID string) error {
	args := m.Called(ctx, tx, showID, seatIDs, holdID, ticketID)
	return args.Error(0)
}

func (m *MockSeatRegistry) ReleaseHold(ctx context.Context, showID, seatID, holdID string) error {
	args := m.Called(ctx, showID, seatID, holdID)
	return args.Error(0)
}

func (m *MockSeatRegistry) ListBookedSeatIDs(ctx context.Context, showID string) ([]string, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSeatRegistry) ListStates(ctx context.Context, showID string) ([]*seat.SeatShowState, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.SeatShowState), args.Error(1)
}

type MockHoldRepository struct {
	mock.Mock
}

func (m *MockHoldRepository) Create(ctx context.Context, h *hold.Hold) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHoldRepository) GetByID(ctx context.Context, id string) (*hold.Hold, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hold.Hold), args.Error(1)
}

func (m *MockHoldRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHoldRepository) ListExpired(ctx context.Context, now time.Time) ([]*hold.Hold, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*hold.Hold), args.Error(1)
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, tx transaction.Tx, t *ticket.Ticket) error {
	args := m.Called(ctx, tx, t)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByUserID(ctx context.Context, userID string) ([]*ticket.Ticket, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ticket.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByShowID(ctx context.Context, showID string) ([]*ticket.Ticket, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ticket.Ticket), args.Error(1)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetShow(ctx context.Context, showID string) (*catalog.Show, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Show), args.Error(1)
}

func (m *MockCatalogRepository) ListHallSeats(ctx context.Context, hallID string) ([]*catalog.HallSeat, error) {
	args := m.Called(ctx, hallID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.HallSeat), args.Error(1)
}

type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

type MockTicketEventPublisher struct {
	mock.Mock
}

func (m *MockTicketEventPublisher) PublishTicketIssued(ctx context.Context, event TicketIssuedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
