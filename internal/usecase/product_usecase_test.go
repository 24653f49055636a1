package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductUC(repo *fakeProductRepo, outbox *fakeOutboxRepo, pool *fakePool,
	cache *fakeCacheRepo, embedder *fakeEmbedder) *ProductUseCase {
	return NewProductUC(repo, outbox, pool, cache, embedder, logger.NewNoopLogger())
}

func TestCreateProduct(t *testing.T) {
	price := 19.99

	repo := &fakeProductRepo{
		createFn: func(ctx context.Context, product *domain.Product) (*domain.Product, error) {
			product.ID = 42
			product.CreatedAt = time.Now()
			return product, nil
		},
	}
	outbox := &fakeOutboxRepo{}
	pool := newFakePool()

	uc := newProductUC(repo, outbox, pool, newFakeCacheRepo(), &fakeEmbedder{})

	info, err := uc.CreateProduct(context.Background(), &CreateProductReq{
		ASIN:  " B00X4WHP5E ",
		Title: "Wireless Mouse",
		Price: &price,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), info.ID)
	assert.Equal(t, "B00X4WHP5E", info.ASIN, "asin must be trimmed")
	assert.True(t, pool.tx.committed)

	events := outbox.created()
	require.Len(t, events, 1, "create must enqueue exactly one embedding event")
	assert.Equal(t, EmbeddingRequested, events[0].EventType)
	assert.Equal(t, int64(42), events[0].ProductID)

	var payload EmbeddingRequestedEvent
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, int64(42), payload.ProductID)
	assert.NotEmpty(t, payload.EventID)
}

func TestCreateProductValidation(t *testing.T) {
	negative := -5.0

	cases := []struct {
		name    string
		req     *CreateProductReq
		wantErr error
	}{
		{"missing asin", &CreateProductReq{Title: "x"}, e.ErrASINRequired},
		{"blank asin", &CreateProductReq{ASIN: "   ", Title: "x"}, e.ErrASINRequired},
		{"missing title", &CreateProductReq{ASIN: "B000"}, e.ErrTitleRequired},
		{"negative price", &CreateProductReq{ASIN: "B000", Title: "x", Price: &negative}, e.ErrInvalidPrice},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := newProductUC(&fakeProductRepo{}, &fakeOutboxRepo{}, newFakePool(), newFakeCacheRepo(), &fakeEmbedder{})

			_, err := uc.CreateProduct(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateProductDuplicateASIN(t *testing.T) {
	repo := &fakeProductRepo{
		createFn: func(ctx context.Context, product *domain.Product) (*domain.Product, error) {
			return nil, e.ErrDuplicateASIN
		},
	}
	pool := newFakePool()

	uc := newProductUC(repo, &fakeOutboxRepo{}, pool, newFakeCacheRepo(), &fakeEmbedder{})

	_, err := uc.CreateProduct(context.Background(), &CreateProductReq{ASIN: "B000", Title: "x"})
	assert.ErrorIs(t, err, e.ErrDuplicateASIN)
	assert.True(t, pool.tx.rolledBack)
	assert.False(t, pool.tx.committed)
}

func TestGetProductCacheHit(t *testing.T) {
	cache := newFakeCacheRepo()
	cached := &ProductInfo{ID: 7, ASIN: "B007", Title: "Cached"}
	require.NoError(t, cache.SetProduct(context.Background(), cached))

	repo := &fakeProductRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Product, error) {
			t.Fatal("repository must not be hit on cache hit")
			return nil, nil
		},
	}

	uc := newProductUC(repo, &fakeOutboxRepo{}, newFakePool(), cache, &fakeEmbedder{})

	info, err := uc.GetProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, cached, info)
}

func TestGetProductCacheMiss(t *testing.T) {
	repo := &fakeProductRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Product, error) {
			return &domain.Product{ID: id, ASIN: "B009", Title: "Fresh"}, nil
		},
	}

	uc := newProductUC(repo, &fakeOutboxRepo{}, newFakePool(), newFakeCacheRepo(), &fakeEmbedder{})

	info, err := uc.GetProduct(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), info.ID)
	assert.Equal(t, "Fresh", info.Title)
}

func TestGetProductNotFound(t *testing.T) {
	uc := newProductUC(notFoundProductRepo(), &fakeOutboxRepo{}, newFakePool(), newFakeCacheRepo(), &fakeEmbedder{})

	_, err := uc.GetProduct(context.Background(), 404)
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestListProductsInvalidOrdering(t *testing.T) {
	uc := newProductUC(&fakeProductRepo{}, &fakeOutboxRepo{}, newFakePool(), newFakeCacheRepo(), &fakeEmbedder{})

	_, err := uc.ListProducts(context.Background(), &ListProductsReq{Ordering: "brand"})
	assert.ErrorIs(t, err, e.ErrInvalidOrdering)
}

func TestListProductsNormalizesPaging(t *testing.T) {
	var got *ListProductsReq
	repo := &fakeProductRepo{
		listFn: func(ctx context.Context, req *ListProductsReq) ([]domain.Product, int64, error) {
			got = req
			return []domain.Product{{ID: 1, Title: "a"}}, 1, nil
		},
	}

	uc := newProductUC(repo, &fakeOutboxRepo{}, newFakePool(), newFakeCacheRepo(), &fakeEmbedder{})

	res, err := uc.ListProducts(context.Background(), &ListProductsReq{Page: 0, PageSize: 1000})
	require.NoError(t, err)

	assert.Equal(t, 1, got.Page)
	assert.Equal(t, maxPageSize, got.PageSize)
	assert.Equal(t, int64(1), res.Count)
	require.Len(t, res.Products, 1)
}

func TestUpdateProductTextChangeResetsEmbedding(t *testing.T) {
	var updated *domain.Product
	repo := &fakeProductRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Product, error) {
			return &domain.Product{
				ID:          id,
				ASIN:        "B001",
				Title:       "Old title",
				Description: "Old description",
				Embedding:   []float32{0.1, 0.2},
			}, nil
		},
		updateFn: func(ctx context.Context, product *domain.Product) (*domain.Product, error) {
			updated = product
			return product, nil
		},
	}
	outbox := &fakeOutboxRepo{}
	pool := newFakePool()
	cache := newFakeCacheRepo()

	uc := newProductUC(repo, outbox, pool, cache, &fakeEmbedder{})

	newTitle := "New title"
	info, err := uc.UpdateProduct(context.Background(), &UpdateProductReq{ID: 1, Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, "New title", info.Title)
	assert.Nil(t, updated.Embedding, "stale vector must be dropped until regenerated")
	assert.Len(t, outbox.created(), 1, "text change must re-enqueue embedding")
	assert.True(t, pool.tx.committed)
	assert.Contains(t, cache.deletedIDs(), int64(1))
}

func TestUpdateProductNonTextChange(t *testing.T) {
	var updated *domain.Product
	repo := &fakeProductRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Product, error) {
			return &domain.Product{ID: id, ASIN: "B001", Title: "Same", Embedding: []float32{0.1}}, nil
		},
		updateFn: func(ctx context.Context, product *domain.Product) (*domain.Product, error) {
			updated = product
			return product, nil
		},
	}
	outbox := &fakeOutboxRepo{}

	uc := newProductUC(repo, outbox, newFakePool(), newFakeCacheRepo(), &fakeEmbedder{})

	price := 9.99
	_, err := uc.UpdateProduct(context.Background(), &UpdateProductReq{ID: 1, Price: &price})
	require.NoError(t, err)

	assert.NotNil(t, updated.Embedding, "price change must not reset the vector")
	assert.Empty(t, outbox.created(), "price change must not re-enqueue embedding")
	require.NotNil(t, updated.Price)
	assert.Equal(t, price, *updated.Price)
}

func TestUpdateProductMissingEmbeddingReenqueues(t *testing.T) {
	repo := &fakeProductRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Product, error) {
			// Вектор так и не посчитан (кодировщик был недоступен при создании)
			return &domain.Product{ID: id, ASIN: "B001", Title: "Same", Embedding: nil}, nil
		},
		updateFn: func(ctx context.Context, product *domain.Product) (*domain.Product, error) {
			return product, nil
		},
	}
	outbox := &fakeOutboxRepo{}

	uc := newProductUC(repo, outbox, newFakePool(), newFakeCacheRepo(), &fakeEmbedder{})

	price := 9.99
	_, err := uc.UpdateProduct(context.Background(), &UpdateProductReq{ID: 1, Price: &price})
	require.NoError(t, err)

	require.Len(t, outbox.created(), 1, "save with NULL embedding must enqueue generation")
	assert.Equal(t, int64(1), outbox.created()[0].ProductID)
}

func TestUpdateProductSameTitleNoReindex(t *testing.T) {
	repo := &fakeProductRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Product, error) {
			return &domain.Product{ID: id, ASIN: "B001", Title: "Same", Embedding: []float32{0.1}}, nil
		},
		updateFn: func(ctx context.Context, product *domain.Product) (*domain.Product, error) {
			return product, nil
		},
	}
	outbox := &fakeOutboxRepo{}

	uc := newProductUC(repo, outbox, newFakePool(), newFakeCacheRepo(), &fakeEmbedder{})

	same := "Same"
	_, err := uc.UpdateProduct(context.Background(), &UpdateProductReq{ID: 1, Title: &same})
	require.NoError(t, err)

	assert.Empty(t, outbox.created(), "unchanged text must not re-enqueue embedding")
}

func TestDeleteProduct(t *testing.T) {
	deleted := int64(0)
	repo := &fakeProductRepo{
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	cache := newFakeCacheRepo()

	uc := newProductUC(repo, &fakeOutboxRepo{}, newFakePool(), cache, &fakeEmbedder{})

	require.NoError(t, uc.DeleteProduct(context.Background(), 5))
	assert.Equal(t, int64(5), deleted)
	assert.Contains(t, cache.deletedIDs(), int64(5))
}

func TestDeleteProductNotFound(t *testing.T) {
	repo := &fakeProductRepo{
		deleteFn: func(ctx context.Context, id int64) error {
			return e.ErrProductNotFound
		},
	}

	uc := newProductUC(repo, &fakeOutboxRepo{}, newFakePool(), newFakeCacheRepo(), &fakeEmbedder{})

	err := uc.DeleteProduct(context.Background(), 5)
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestRequestEmbedding(t *testing.T) {
	outbox := &fakeOutboxRepo{}
	pool := newFakePool()

	uc := newProductUC(&fakeProductRepo{}, outbox, pool, newFakeCacheRepo(), &fakeEmbedder{})

	require.NoError(t, uc.RequestEmbedding(context.Background(), 11))

	events := outbox.created()
	require.Len(t, events, 1)
	assert.Equal(t, int64(11), events[0].ProductID)
	assert.True(t, pool.tx.committed)
}

func TestGenerateEmbedding(t *testing.T) {
	var gotID int64
	var gotVector []float32
	repo := &fakeProductRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Product, error) {
			return &domain.Product{ID: id, Title: "Mouse", Description: "Wireless"}, nil
		},
		setEmbeddingFn: func(ctx context.Context, id int64, vector []float32) error {
			gotID = id
			gotVector = vector
			return nil
		},
	}
	embedder := &fakeEmbedder{vector: []float32{0.5, 0.25}}
	cache := newFakeCacheRepo()

	uc := newProductUC(repo, &fakeOutboxRepo{}, newFakePool(), cache, embedder)

	require.NoError(t, uc.GenerateEmbedding(context.Background(), 3))

	assert.Equal(t, "Mouse Wireless", embedder.lastText)
	assert.Equal(t, int64(3), gotID)
	assert.Equal(t, []float32{0.5, 0.25}, gotVector)
	assert.Contains(t, cache.deletedIDs(), int64(3))
}

func TestGenerateEmbeddingProductGone(t *testing.T) {
	uc := newProductUC(notFoundProductRepo(), &fakeOutboxRepo{}, newFakePool(), newFakeCacheRepo(), &fakeEmbedder{})

	// Товар удалён после постановки задания — no-op, не ошибка
	assert.NoError(t, uc.GenerateEmbedding(context.Background(), 404))
}

func TestGenerateEmbeddingEncoderDown(t *testing.T) {
	repo := &fakeProductRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Product, error) {
			return &domain.Product{ID: id, Title: "Mouse"}, nil
		},
		setEmbeddingFn: func(ctx context.Context, id int64, vector []float32) error {
			t.Fatal("vector must not be stored when encoding fails")
			return nil
		},
	}
	embedder := &fakeEmbedder{err: e.ErrEncoderUnavailable}

	uc := newProductUC(repo, &fakeOutboxRepo{}, newFakePool(), newFakeCacheRepo(), embedder)

	err := uc.GenerateEmbedding(context.Background(), 3)
	assert.ErrorIs(t, err, e.ErrEncoderUnavailable)
}

func TestValidateOrdering(t *testing.T) {
	for _, ordering := range []string{"", "price", "-price", "created_at", "-created_at"} {
		assert.NoError(t, validateOrdering(ordering), ordering)
	}
	assert.Error(t, validateOrdering("title"))
	assert.True(t, errors.Is(validateOrdering("title"), e.ErrInvalidOrdering))
}
