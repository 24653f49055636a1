package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, req *ListProductsReq) ([]domain.Product, int64, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	SetEmbedding(ctx context.Context, id int64, vector []float32) error
	FindSimilar(ctx context.Context, ref *domain.Product, limit int) ([]ScoredProduct, error)
	SearchByVector(ctx context.Context, vector []float32, limit, offset int) ([]ScoredProduct, int64, error)
	ListIDsMissingEmbedding(ctx context.Context) ([]int64, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ResetStaleProcessing(ctx context.Context, olderThan time.Duration) (int64, error)
}

type CacheRepository interface {
	// GetProduct возвращает nil, nil при промахе кэша
	GetProduct(ctx context.Context, id int64) (*ProductInfo, error)
	SetProduct(ctx context.Context, product *ProductInfo) error
	DeleteProducts(ctx context.Context, ids []int64) error
}
