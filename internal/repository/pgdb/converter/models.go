package converter

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          int64            `db:"id"`
	ASIN        string           `db:"asin"`
	Title       string           `db:"title"`
	Description string           `db:"description"`
	Category    string           `db:"category"`
	Brand       string           `db:"brand"`
	Price       *float64         `db:"price"`
	Embedding   *pgvector.Vector `db:"embedding"`
	CreatedAt   time.Time        `db:"created_at"`
	UpdatedAt   *time.Time       `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ProductID   int64      `db:"product_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
