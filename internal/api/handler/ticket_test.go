package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/ticket"
)

// MockTicketService はTicketServiceInterfaceのモック
type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) GetTicket(ctx context.Context, ticketID string) (*ticket.Ticket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.Ticket), args.Error(1)
}

func (m *MockTicketService) GetTicketsForUser(ctx context.Context, userID string) ([]*ticket.Ticket, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ticket.Ticket), args.Error(1)
}

func (m *MockTicketService) GetTicketsForShow(ctx context.Context, showID string) ([]*ticket.Ticket, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ticket.Ticket), args.Error(1)
}

func TestTicketHandler_GetByID(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常系", func(t *testing.T) {
		mockService := new(MockTicketService)
		h := NewTicketHandler(mockService)
		mockService.On("GetTicket", mock.Anything, "ticket-1").Return(&ticket.Ticket{
			ID:           "ticket-1",
			ShowID:       "show-1",
			UserID:       "user-1",
			SeatIDs:      []string{"A1"},
			TotalAmount:  1250,
			PurchaseTime: time.Now(),
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/tickets/ticket-1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("ticket-1")

		err := h.GetByID(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ticket-1")
	})

	t.Run("異常系_存在しないチケットは404", func(t *testing.T) {
		mockService := new(MockTicketService)
		h := NewTicketHandler(mockService)
		mockService.On("GetTicket", mock.Anything, "ticket-x").
			Return(nil, ticket.ErrTicketNotFound)

		req := httptest.NewRequest(http.MethodGet, "/tickets/ticket-x", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("ticket-x")

		err := h.GetByID(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestTicketHandler_GetUserTickets(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常系", func(t *testing.T) {
		mockService := new(MockTicketService)
		h := NewTicketHandler(mockService)
		mockService.On("GetTicketsForUser", mock.Anything, "user-1").Return([]*ticket.Ticket{
			{ID: "ticket-1", UserID: "user-1"},
			{ID: "ticket-2", UserID: "user-1"},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/tickets", nil)
		req.Header.Set("X-User-ID", "user-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.GetUserTickets(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ticket-1")
		assert.Contains(t, rec.Body.String(), "ticket-2")
	})

	t.Run("異常系_ユーザーIDなしは401", func(t *testing.T) {
		mockService := new(MockTicketService)
		h := NewTicketHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/tickets", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.GetUserTickets(c)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}

func TestTicketHandler_GetShowTickets(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常系", func(t *testing.T) {
		mockService := new(MockTicketService)
		h := NewTicketHandler(mockService)
		mockService.On("GetTicketsForShow", mock.Anything, "show-1").Return([]*ticket.Ticket{
			{ID: "ticket-1", ShowID: "show-1"},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/shows/show-1/tickets", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("show_id")
		c.SetParamValues("show-1")

		err := h.GetShowTickets(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "show-1")
	})
}
