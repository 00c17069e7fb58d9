package ticket

import "errors"

// Ticket ドメインのエラー定義
var (
	ErrTicketNotFound  = errors.New("チケットが見つかりません")
	ErrShowIDRequired  = errors.New("ショーIDは必須です")
	ErrUserIDRequired  = errors.New("ユーザーIDは必須です")
	ErrSeatIDsRequired = errors.New("座席IDは必須です")
	ErrInvalidAmount   = errors.New("金額は0以上である必要があります")
)
