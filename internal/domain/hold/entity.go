package hold

import "time"

// Hold は複数座席にまたがる時限付きの仮押さえを表す
// reserve から confirm/cancel/期限切れまでの間だけ存在し、確定後は破棄される
type Hold struct {
	ID        string
	ShowID    string
	SeatIDs   []string
	HolderID  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// New は新しいホールドを作成する
func New(showID, holderID string, seatIDs []string, duration time.Duration) *Hold {
	now := time.Now()
	return &Hold{
		ShowID:    showID,
		SeatIDs:   seatIDs,
		HolderID:  holderID,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	}
}

// IsExpired はホールドが期限切れかを返す
func (h *Hold) IsExpired(now time.Time) bool {
	return now.After(h.ExpiresAt)
}

// Validate はホールドの検証を行う
func (h *Hold) Validate() error {
	if h.ShowID == "" {
		return ErrShowIDRequired
	}
	if h.HolderID == "" {
		return ErrHolderIDRequired
	}
	if len(h.SeatIDs) == 0 {
		return ErrSeatIDsRequired
	}
	return nil
}
