package domain

import "time"

// Product описывает товар каталога
type Product struct {
	ID          int64
	ASIN        string // внешний уникальный идентификатор
	Title       string
	Description string
	Category    string
	Brand       string
	Price       *float64
	Embedding   []float32 // nil, пока вектор не сгенерирован
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewProduct(asin, title, description, category, brand string, price *float64) *Product {
	return &Product{
		ASIN:        asin,
		Title:       title,
		Description: description,
		Category:    category,
		Brand:       brand,
		Price:       price,
	}
}

// EmbeddingText возвращает текст, из которого строится вектор товара.
func (p *Product) EmbeddingText() string {
	return p.Title + " " + p.Description
}
