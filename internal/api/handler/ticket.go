package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/ticket"
)

type TicketHandler struct {
	service TicketServiceInterface
}

func NewTicketHandler(s TicketServiceInterface) *TicketHandler {
	return &TicketHandler{service: s}
}

func toTicketResponse(t *ticket.Ticket) TicketResponse {
	return TicketResponse{
		TicketID:     t.ID,
		ShowID:       t.ShowID,
		UserID:       t.UserID,
		SeatIDs:      t.SeatIDs,
		TotalAmount:  t.TotalAmount,
		PurchaseTime: t.PurchaseTime,
	}
}

// GetByID godoc
// @Summary チケットを取得
// @Description 指定IDのチケットを取得します
// @Tags tickets
// @Produce json
// @Param id path string true "チケットID"
// @Success 200 {object} TicketResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetByID(c echo.Context) error {
	tk, err := h.service.GetTicket(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ticket.ErrTicketNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toTicketResponse(tk))
}

// GetUserTickets godoc
// @Summary ユーザーのチケット一覧を取得
// @Description ログインユーザーの購入済みチケット一覧を購入日時の降順で返します
// @Tags tickets
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Success 200 {array} TicketResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /tickets [get]
func (h *TicketHandler) GetUserTickets(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	tickets, err := h.service.GetTicketsForUser(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]TicketResponse, len(tickets))
	for i, t := range tickets {
		resp[i] = toTicketResponse(t)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetShowTickets godoc
// @Summary ショーの発行済みチケット一覧を取得
// @Description ショーに対して発行されたチケットの一覧を返します
// @Tags tickets
// @Produce json
// @Param show_id path string true "ショーID"
// @Success 200 {array} TicketResponse
// @Router /shows/{show_id}/tickets [get]
func (h *TicketHandler) GetShowTickets(c echo.Context) error {
	tickets, err := h.service.GetTicketsForShow(c.Request().Context(), c.Param("show_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]TicketResponse, len(tickets))
	for i, t := range tickets {
		resp[i] = toTicketResponse(t)
	}
	return c.JSON(http.StatusOK, resp)
}
