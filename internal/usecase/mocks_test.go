package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/jackc/pgx/v5"
)

// fakePool подменяет pgxpool.Pool в транзакционных сценариях.
type fakePool struct {
	tx       *fakeTx
	beginErr error
}

func newFakePool() *fakePool {
	return &fakePool{tx: &fakeTx{}}
}

func (f *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	return f.BeginTx(ctx, pgx.TxOptions{})
}

func (f *fakePool) BeginTx(ctx context.Context, _ pgx.TxOptions) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeProductRepo struct {
	createFn       func(ctx context.Context, product *domain.Product) (*domain.Product, error)
	getByIDFn      func(ctx context.Context, id int64) (*domain.Product, error)
	listFn         func(ctx context.Context, req *ListProductsReq) ([]domain.Product, int64, error)
	updateFn       func(ctx context.Context, product *domain.Product) (*domain.Product, error)
	deleteFn       func(ctx context.Context, id int64) error
	setEmbeddingFn func(ctx context.Context, id int64, vector []float32) error
	findSimilarFn  func(ctx context.Context, ref *domain.Product, limit int) ([]ScoredProduct, error)
	searchFn       func(ctx context.Context, vector []float32, limit, offset int) ([]ScoredProduct, int64, error)
	missingFn      func(ctx context.Context) ([]int64, error)
}

func (f *fakeProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	return f.createFn(ctx, product)
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeProductRepo) List(ctx context.Context, req *ListProductsReq) ([]domain.Product, int64, error) {
	return f.listFn(ctx, req)
}

func (f *fakeProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	return f.updateFn(ctx, product)
}

func (f *fakeProductRepo) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeProductRepo) SetEmbedding(ctx context.Context, id int64, vector []float32) error {
	return f.setEmbeddingFn(ctx, id, vector)
}

func (f *fakeProductRepo) FindSimilar(ctx context.Context, ref *domain.Product, limit int) ([]ScoredProduct, error) {
	return f.findSimilarFn(ctx, ref, limit)
}

func (f *fakeProductRepo) SearchByVector(ctx context.Context, vector []float32, limit, offset int) ([]ScoredProduct, int64, error) {
	return f.searchFn(ctx, vector, limit, offset)
}

func (f *fakeProductRepo) ListIDsMissingEmbedding(ctx context.Context) ([]int64, error) {
	return f.missingFn(ctx)
}

// fakeOutboxRepo запоминает созданные события.
type fakeOutboxRepo struct {
	mu        sync.Mutex
	events    []*OutboxEvent
	createErr error
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	return nil
}

func (f *fakeOutboxRepo) ResetStaleProcessing(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

func (f *fakeOutboxRepo) created() []*OutboxEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events
}

// fakeCacheRepo — потокобезопасный кэш в памяти.
type fakeCacheRepo struct {
	mu      sync.Mutex
	items   map[int64]*ProductInfo
	deleted []int64
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{items: make(map[int64]*ProductInfo)}
}

func (f *fakeCacheRepo) GetProduct(ctx context.Context, id int64) (*ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id], nil
}

func (f *fakeCacheRepo) SetProduct(ctx context.Context, product *ProductInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[product.ID] = product
	return nil
}

func (f *fakeCacheRepo) DeleteProducts(ctx context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.items, id)
		f.deleted = append(f.deleted, id)
	}
	return nil
}

func (f *fakeCacheRepo) deletedIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleted
}

// fakeEmbedder возвращает заранее заданный вектор или ошибку.
type fakeEmbedder struct {
	vector   []float32
	err      error
	lastText string
}

func (f *fakeEmbedder) EncodeText(ctx context.Context, text string) ([]float32, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func notFoundProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Product, error) {
			return nil, e.ErrProductNotFound
		},
	}
}
