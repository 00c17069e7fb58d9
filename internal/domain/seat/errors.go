package seat

import (
	"errors"
	"strings"
)

// Seat ドメインのエラー定義
var (
	ErrSeatConflict   = errors.New("座席は既に確保されています")
	ErrInvalidHold    = errors.New("ホールドが無効です")
	ErrShowIDRequired = errors.New("ショーIDは必須です")
	ErrSeatIDRequired = errors.New("座席IDは必須です")
)

// UnavailableError は要求された座席の一部が確保できなかったことを表す
// 競合した座席IDを保持し、呼び出し側が代替座席の選択などに利用できる
type UnavailableError struct {
	SeatIDs []string
}

func (e *UnavailableError) Error() string {
	return "座席を確保できません: " + strings.Join(e.SeatIDs, ", ")
}

// Is は errors.Is で ErrSeatConflict と照合できるようにする
func (e *UnavailableError) Is(target error) bool {
	return target == ErrSeatConflict
}
