package seat

import "time"

// Status は座席のショーごとの状態を表す
type Status string

const (
	StatusAvailable Status = "available"
	StatusHeld      Status = "held"
	StatusBooked    Status = "booked"
)

// SeatShowState は (showID, seatID) ごとの予約状態エンティティ
// 同時実行制御の最小単位であり、状態遷移のルールはすべてこのエンティティが持つ
// 同じ座席でもショーが異なれば状態は独立する
type SeatShowState struct {
	ShowID        string
	SeatID        string
	Status        Status
	HoldID        *string    // held のときのみ設定される
	HoldExpiresAt *time.Time // held のときのみ設定される
	TicketID      *string    // booked のときのみ設定される
	UpdatedAt     time.Time
	Version       int // 楽観的ロック用
}

// NewState は available 状態の座席ショー状態を作成する
func NewState(showID, seatID string) *SeatShowState {
	return &SeatShowState{
		ShowID:    showID,
		SeatID:    seatID,
		Status:    StatusAvailable,
		UpdatedAt: time.Now(),
		Version:   0,
	}
}

// IsAvailable は now 時点で新しいホールドを受け付けられるかを返す
// 期限切れのホールドは available として扱う（遅延回収）
func (s *SeatShowState) IsAvailable(now time.Time) bool {
	switch s.Status {
	case StatusAvailable:
		return true
	case StatusHeld:
		return s.HoldExpiresAt != nil && !now.Before(*s.HoldExpiresAt)
	default:
		return false
	}
}

// HeldBy は now 時点で holdID による有効なホールド中かを返す
func (s *SeatShowState) HeldBy(holdID string, now time.Time) bool {
	if s.Status != StatusHeld || s.HoldID == nil || *s.HoldID != holdID {
		return false
	}
	return s.HoldExpiresAt != nil && now.Before(*s.HoldExpiresAt)
}

// TryHold は座席をホールド状態に遷移させる
// available でない場合は ErrSeatConflict を返す（競合は例外ではなく通常の結果）
func (s *SeatShowState) TryHold(holdID string, expiresAt, now time.Time) error {
	if !s.IsAvailable(now) {
		return ErrSeatConflict
	}
	s.Status = StatusHeld
	s.HoldID = &holdID
	s.HoldExpiresAt = &expiresAt
	s.TicketID = nil
	s.UpdatedAt = now
	return nil
}

// ConfirmHold はホールド中の座席を booked に遷移させる
// holdID が一致しない、または期限切れの場合は ErrInvalidHold を返す
func (s *SeatShowState) ConfirmHold(holdID, ticketID string, now time.Time) error {
	if !s.HeldBy(holdID, now) {
		return ErrInvalidHold
	}
	s.Status = StatusBooked
	s.HoldID = nil
	s.HoldExpiresAt = nil
	s.TicketID = &ticketID
	s.UpdatedAt = now
	return nil
}

// ReleaseHold はホールドを解放して available に戻す
// holdID が一致しない場合は ErrInvalidHold を返す（期限切れ掃除との競合で
// 発生しうる想定内の結果であり、呼び出し側は no-op として扱ってよい）
func (s *SeatShowState) ReleaseHold(holdID string) error {
	if s.Status != StatusHeld || s.HoldID == nil || *s.HoldID != holdID {
		return ErrInvalidHold
	}
	s.Status = StatusAvailable
	s.HoldID = nil
	s.HoldExpiresAt = nil
	s.UpdatedAt = time.Now()
	return nil
}

// EffectiveStatus は期限切れホールドを available に読み替えた状態を返す
// 座席マップの表示に使用する
func (s *SeatShowState) EffectiveStatus(now time.Time) Status {
	if s.Status == StatusHeld && s.IsAvailable(now) {
		return StatusAvailable
	}
	return s.Status
}

// Validate は座席ショー状態の検証を行う
func (s *SeatShowState) Validate() error {
	if s.ShowID == "" {
		return ErrShowIDRequired
	}
	if s.SeatID == "" {
		return ErrSeatIDRequired
	}
	return nil
}
