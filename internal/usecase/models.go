package usecase

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/google/uuid"
)

// PRODUCT USECASE

// CreateProductReq — запрос на создание товара.
type CreateProductReq struct {
	ASIN        string
	Title       string
	Description string
	Category    string
	Brand       string
	Price       *float64
}

// UpdateProductReq — запрос на обновление товара.
// nil-поле означает «не менять».
type UpdateProductReq struct {
	ID          int64
	Title       *string
	Description *string
	Category    *string
	Brand       *string
	Price       *float64
}

// ListProductsReq — параметры листинга каталога.
type ListProductsReq struct {
	Category string
	Search   string
	Ordering string
	Page     int
	PageSize int
}

// ProductInfo — DTO товара для внешнего использования.
// Вектор embedding в DTO не входит и наружу не отдаётся.
type ProductInfo struct {
	ID          int64
	ASIN        string
	Title       string
	Description string
	Category    string
	Brand       string
	Price       *float64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ListProductsRes — страница каталога с общим количеством.
type ListProductsRes struct {
	Count    int64
	Products []ProductInfo
}

// ScoredProduct — товар с косинусной дистанцией до опорного вектора.
type ScoredProduct struct {
	Product  ProductInfo
	Distance float64
}

// RecommendationsRes — рекомендации, отсортированные по возрастанию дистанции.
type RecommendationsRes struct {
	Products []ScoredProduct
}

// SearchReq — параметры семантического поиска.
type SearchReq struct {
	Query    string
	Page     int
	PageSize int
}

// SearchHit — результат поиска с флагом уверенности.
type SearchHit struct {
	Product          ProductInfo
	Distance         float64
	IsHighConfidence bool
}

// SearchRes — страница результатов семантического поиска.
type SearchRes struct {
	Count           int64
	HasExactMatches bool
	Hits            []SearchHit
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const EmbeddingRequested OutboxEventType = "embedding_requested"

// OutboxEvent — запись транзакционного outbox.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ProductID   int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// EmbeddingRequestedEvent — полезная нагрузка события генерации вектора.
type EmbeddingRequestedEvent struct {
	EventID     string `json:"event_id"`
	ProductID   int64  `json:"product_id"`
	RequestedAt int64  `json:"requested_at"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	ProductID int64
	Payload   []byte
}

// MAPPERS

func NewProductInfo(product *domain.Product) *ProductInfo {
	return &ProductInfo{
		ID:          product.ID,
		ASIN:        product.ASIN,
		Title:       product.Title,
		Description: product.Description,
		Category:    product.Category,
		Brand:       product.Brand,
		Price:       product.Price,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// NewEmbeddingRequestedEvent собирает outbox-событие генерации вектора для товара.
func NewEmbeddingRequestedEvent(productID int64) (*OutboxEvent, error) {
	eventID := uuid.NewString()

	payload, err := json.Marshal(EmbeddingRequestedEvent{
		EventID:     eventID,
		ProductID:   productID,
		RequestedAt: time.Now().UTC().UnixNano(),
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:   eventID,
		EventType: EmbeddingRequested,
		ProductID: productID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func NewWriteRawMessageReq(productID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ProductID: productID,
		Payload:   payload,
	}
}

func NewScoredProduct(product *domain.Product, distance float64) ScoredProduct {
	return ScoredProduct{
		Product:  *NewProductInfo(product),
		Distance: distance,
	}
}
