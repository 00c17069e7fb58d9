package catalog

import "time"

// Show は上映情報の読み取り専用ビュー
// カタログ管理は外部コラボレーターの責務であり、予約コアは価格と
// ホール参照のためにのみ参照する
type Show struct {
	ID         string
	HallID     string
	MovieID    string
	StartAt    time.Time
	PriceCents int64 // 1座席あたりの価格（セント単位）
}

// HallSeat はホールの物理座席を表す
// 作成後は不変。ホール内で一意な seatID を持つ
type HallSeat struct {
	ID     string
	HallID string
	Row    string
	Col    string
}
