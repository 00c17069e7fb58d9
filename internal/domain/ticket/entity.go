package ticket

import "time"

// Ticket は確定済み予約の永続レコードを表す
// confirm 成功ごとに一度だけ作成され、以後は不変（追記専用台帳）
// 金額は丸め誤差を避けるためすべてセント単位の整数で扱う
type Ticket struct {
	ID           string
	ShowID       string
	UserID       string
	SeatIDs      []string
	TotalAmount  int64 // セント単位
	PurchaseTime time.Time
}

// New は新しいチケットを作成する
// 合計金額は pricePerSeat × 座席数で厳密に計算される
func New(showID, userID string, seatIDs []string, pricePerSeat int64) *Ticket {
	return &Ticket{
		ShowID:       showID,
		UserID:       userID,
		SeatIDs:      seatIDs,
		TotalAmount:  pricePerSeat * int64(len(seatIDs)),
		PurchaseTime: time.Now(),
	}
}

// Validate はチケットの検証を行う
func (t *Ticket) Validate() error {
	if t.ShowID == "" {
		return ErrShowIDRequired
	}
	if t.UserID == "" {
		return ErrUserIDRequired
	}
	if len(t.SeatIDs) == 0 {
		return ErrSeatIDsRequired
	}
	if t.TotalAmount < 0 {
		return ErrInvalidAmount
	}
	return nil
}
