package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    int      `json:"code,omitempty"`
	SeatIDs []string `json:"seat_ids,omitempty"` // 座席競合時のみ設定される
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    = http.StatusInternalServerError
		message = "内部サーバーエラー"
		seatIDs []string
	)

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			message = m
		case *ConflictMessage:
			message = m.Message
			seatIDs = m.SeatIDs
		default:
			message = http.StatusText(code)
		}
	}

	// エラーログを出力（5xx エラーの場合）
	if code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	// JSONレスポンスを返す
	if err := c.JSON(code, ErrorResponse{
		Error:   message,
		Code:    code,
		SeatIDs: seatIDs,
	}); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}

// ConflictMessage は座席競合エラーの詳細
// どの座席が確保できなかったかをクライアントに伝える
type ConflictMessage struct {
	Message string
	SeatIDs []string
}
