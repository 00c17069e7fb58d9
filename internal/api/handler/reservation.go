package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/api"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/application"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/catalog"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/hold"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/seat"
)

type ReservationHandler struct {
	service BookingServiceInterface
}

func NewReservationHandler(s BookingServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type ReserveRequest struct {
	SeatIDs []string `json:"seat_ids" validate:"required,min=1" example:"A1,A2"`
}

type HoldResponse struct {
	HoldID    string    `json:"hold_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ShowID    string    `json:"show_id" example:"show-123"`
	SeatIDs   []string  `json:"seat_ids" example:"A1,A2"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type TicketResponse struct {
	TicketID     string    `json:"ticket_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ShowID       string    `json:"show_id" example:"show-123"`
	UserID       string    `json:"user_id" example:"user-123"`
	SeatIDs      []string  `json:"seat_ids" example:"A1,A2"`
	TotalAmount  int64     `json:"total_amount" example:"2500"`
	PurchaseTime time.Time `json:"purchase_time"`
}

func toHoldResponse(h *hold.Hold) HoldResponse {
	return HoldResponse{
		HoldID:    h.ID,
		ShowID:    h.ShowID,
		SeatIDs:   h.SeatIDs,
		ExpiresAt: h.ExpiresAt,
		CreatedAt: h.CreatedAt,
	}
}

// Reserve godoc
// @Summary 座席を仮押さえ
// @Description 指定したショーの座席群を期限付きで仮押さえします（全席確保か全席失敗）
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param show_id path string true "ショーID"
// @Param request body ReserveRequest true "座席指定"
// @Success 201 {object} HoldResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "座席が確保できない"
// @Router /shows/{show_id}/reservations [post]
func (h *ReservationHandler) Reserve(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	var req ReserveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	held, err := h.service.Reserve(c.Request().Context(), application.ReserveInput{
		ShowID:   c.Param("show_id"),
		SeatIDs:  req.SeatIDs,
		HolderID: userID,
	})
	if err != nil {
		var unavailable *seat.UnavailableError
		switch {
		case errors.As(err, &unavailable):
			return echo.NewHTTPError(http.StatusConflict, &api.ConflictMessage{
				Message: "座席を確保できません",
				SeatIDs: unavailable.SeatIDs,
			})
		case errors.Is(err, catalog.ErrShowNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, application.ErrNoSeatsRequested),
			errors.Is(err, application.ErrDuplicateSeatIDs):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, toHoldResponse(held))
}

// Confirm godoc
// @Summary ホールドを確定してチケットを発行
// @Description 仮押さえ中の座席を購入確定し、チケットを発行します
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param hold_id path string true "ホールドID"
// @Success 200 {object} TicketResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 410 {object} api.ErrorResponse "ホールドが期限切れ"
// @Router /reservations/{hold_id}/confirm [post]
func (h *ReservationHandler) Confirm(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}

	tk, err := h.service.Confirm(c.Request().Context(), c.Param("hold_id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, hold.ErrHoldNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, hold.ErrHoldExpired):
			return echo.NewHTTPError(http.StatusGone, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, TicketResponse{
		TicketID:     tk.ID,
		ShowID:       tk.ShowID,
		UserID:       tk.UserID,
		SeatIDs:      tk.SeatIDs,
		TotalAmount:  tk.TotalAmount,
		PurchaseTime: tk.PurchaseTime,
	})
}

// Cancel godoc
// @Summary ホールドを取り消し
// @Description 仮押さえを取り消し、座席を即座に解放します
// @Tags reservations
// @Param hold_id path string true "ホールドID"
// @Success 204 "取り消し完了"
// @Failure 404 {object} api.ErrorResponse
// @Router /reservations/{hold_id} [delete]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	if err := h.service.Cancel(c.Request().Context(), c.Param("hold_id")); err != nil {
		if errors.Is(err, hold.ErrHoldNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
