package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/application"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/catalog"
)

type SeatHandler struct {
	service BookingServiceInterface
}

func NewSeatHandler(s BookingServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

type SeatMapSeat struct {
	SeatID string `json:"seat_id" example:"A1"`
	Row    string `json:"row" example:"A"`
	Col    string `json:"col" example:"1"`
	Status string `json:"status" example:"available"`
}

type SeatMapResponse struct {
	ShowID string        `json:"show_id" example:"show-123"`
	Seats  []SeatMapSeat `json:"seats"`
}

type AvailabilityResponse struct {
	ShowID    string `json:"show_id" example:"show-123"`
	Available int    `json:"available" example:"42"`
}

// GetSeatMap godoc
// @Summary 座席マップを取得
// @Description ショーの座席レイアウトと各座席の現在の状態を返します
// @Tags seats
// @Produce json
// @Param show_id path string true "ショーID"
// @Success 200 {object} SeatMapResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /shows/{show_id}/seats [get]
func (h *SeatHandler) GetSeatMap(c echo.Context) error {
	showID := c.Param("show_id")
	entries, err := h.service.GetSeatMap(c.Request().Context(), showID)
	if err != nil {
		if errors.Is(err, catalog.ErrShowNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	seats := make([]SeatMapSeat, len(entries))
	for i, e := range entries {
		seats[i] = toSeatMapSeat(e)
	}
	return c.JSON(http.StatusOK, SeatMapResponse{ShowID: showID, Seats: seats})
}

// GetAvailability godoc
// @Summary 空席数を取得
// @Description ショーの現在の空席数を返します
// @Tags seats
// @Produce json
// @Param show_id path string true "ショーID"
// @Success 200 {object} AvailabilityResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /shows/{show_id}/availability [get]
func (h *SeatHandler) GetAvailability(c echo.Context) error {
	showID := c.Param("show_id")
	count, err := h.service.CountAvailableSeats(c.Request().Context(), showID)
	if err != nil {
		if errors.Is(err, catalog.ErrShowNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{ShowID: showID, Available: count})
}

func toSeatMapSeat(e application.SeatMapEntry) SeatMapSeat {
	return SeatMapSeat{
		SeatID: e.SeatID,
		Row:    e.Row,
		Col:    e.Col,
		Status: string(e.Status),
	}
}
