package catalog

import "errors"

// Catalog ドメインのエラー定義
var (
	ErrShowNotFound = errors.New("ショーが見つかりません")
	ErrHallNotFound = errors.New("ホールが見つかりません")
)
