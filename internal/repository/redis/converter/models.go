package converter

import "time"

// ProductInfoRedisModel — кэшируемое представление товара (без embedding).
type ProductInfoRedisModel struct {
	ID          int64      `json:"id"`
	ASIN        string     `json:"asin"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Brand       string     `json:"brand"`
	Price       *float64   `json:"price"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
