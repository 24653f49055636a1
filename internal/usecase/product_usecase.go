package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// ProductUseCase реализует бизнес-логику управления каталогом товаров.
type ProductUseCase struct {
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	dbPool      transaction.Transactional
	cacheRepo   CacheRepository
	embedder    EmbedderInfra
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	cacheRepo CacheRepository,
	embedder EmbedderInfra,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		dbPool:      dbPool,
		cacheRepo:   cacheRepo,
		embedder:    embedder,
		logger:      logger,
	}
}

// CreateProduct создаёт товар и в той же транзакции публикует outbox-событие
// генерации embedding-вектора. Запрос возвращается до того, как вектор посчитан.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*ProductInfo, error) {
	const op = "ProductUseCase.CreateProduct"

	if err := p.validateCreate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	product, err := p.productRepo.Create(ctx, domain.NewProduct(
		strings.TrimSpace(req.ASIN),
		strings.TrimSpace(req.Title),
		req.Description,
		req.Category,
		req.Brand,
		req.Price,
	))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = p.enqueueEmbedding(ctx, product.ID); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewProductInfo(product), nil
}

// GetProduct возвращает товар по ID, сквозь кэш.
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*ProductInfo, error) {
	const op = "ProductUseCase.GetProduct"

	cached, err := p.cacheRepo.GetProduct(ctx, id)
	if err != nil {
		p.logger.Warnf("cache lookup failed: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	info := NewProductInfo(product)

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProduct(bgCtx, info); err != nil {
			p.logger.Warnf("failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return info, nil
}

// ListProducts возвращает страницу каталога с фильтрами и сортировкой.
func (p *ProductUseCase) ListProducts(ctx context.Context, req *ListProductsReq) (*ListProductsRes, error) {
	const op = "ProductUseCase.ListProducts"

	if err := validateOrdering(req.Ordering); err != nil {
		return nil, e.Wrap(op, err)
	}
	normalizePage(&req.Page, &req.PageSize)

	products, total, err := p.productRepo.List(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	infos := make([]ProductInfo, 0, len(products))
	for i := range products {
		infos = append(infos, *NewProductInfo(&products[i]))
	}

	return &ListProductsRes{Count: total, Products: infos}, nil
}

// UpdateProduct применяет частичное обновление. Изменение title или description
// сбрасывает embedding и ставит в очередь повторную генерацию.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, req *UpdateProductReq) (*ProductInfo, error) {
	const op = "ProductUseCase.UpdateProduct"

	if err := p.validateUpdate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	product, err := p.productRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	textChanged := applyPatch(product, req)
	if textChanged {
		// embedding — функция текущего текста; устаревший вектор не должен
		// участвовать в ранжировании, пока не пересчитан
		product.Embedding = nil
	}

	updated, err := p.productRepo.Update(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Генерация ставится в очередь при любом сохранении без вектора: текст
	// изменился либо товар так и не был закодирован (кодировщик был недоступен).
	if product.Embedding == nil {
		if err = p.enqueueEmbedding(ctx, updated.ID); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := p.cacheRepo.DeleteProducts(ctx, []int64{updated.ID}); err != nil {
		p.logger.Warnf("failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	return NewProductInfo(updated), nil
}

// DeleteProduct безусловно удаляет товар из хранилища и кэша.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	if err := p.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err := p.cacheRepo.DeleteProducts(ctx, []int64{id}); err != nil {
		p.logger.Warnf("failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	return nil
}

// RequestEmbedding публикует outbox-событие генерации вектора вне основного
// пути записи (используется backfill-командой).
func (p *ProductUseCase) RequestEmbedding(ctx context.Context, productID int64) error {
	const op = "ProductUseCase.RequestEmbedding"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = p.enqueueEmbedding(ctx, productID); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// GenerateEmbedding — тело фонового задания: перечитать товар, закодировать
// текст, записать вектор. Товар мог быть удалён после постановки в очередь —
// это не ошибка, а тихий no-op.
func (p *ProductUseCase) GenerateEmbedding(ctx context.Context, productID int64) error {
	const op = "ProductUseCase.GenerateEmbedding"

	product, err := p.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, e.ErrProductNotFound) {
			p.logger.Warnf("product %d not found, embedding job skipped", productID)
			return nil
		}
		return e.Wrap(op, err)
	}

	vector, err := p.embedder.EncodeText(ctx, product.EmbeddingText())
	if err != nil {
		return e.Wrap(op, err)
	}

	// Обновляется только embedding, чтобы не затереть параллельные правки
	// остальных полей. При гонке двух заданий побеждает последняя запись.
	if err := p.productRepo.SetEmbedding(ctx, productID, vector); err != nil {
		return e.Wrap(op, err)
	}

	if err := p.cacheRepo.DeleteProducts(ctx, []int64{productID}); err != nil {
		p.logger.Warnf("failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	return nil
}

// ListProductsMissingEmbedding возвращает ID товаров без вектора.
func (p *ProductUseCase) ListProductsMissingEmbedding(ctx context.Context) ([]int64, error) {
	return p.productRepo.ListIDsMissingEmbedding(ctx)
}

// enqueueEmbedding пишет outbox-событие в рамках текущей транзакции.
func (p *ProductUseCase) enqueueEmbedding(ctx context.Context, productID int64) error {
	event, err := NewEmbeddingRequestedEvent(productID)
	if err != nil {
		return err
	}

	_, err = p.outboxRepo.Create(ctx, event)
	return err
}

// validateCreate проверяет корректность входных данных запроса на создание товара.
func (p *ProductUseCase) validateCreate(req *CreateProductReq) error {
	if strings.TrimSpace(req.ASIN) == "" {
		return e.ErrASINRequired
	}

	if strings.TrimSpace(req.Title) == "" {
		return e.ErrTitleRequired
	}

	if req.Price != nil && *req.Price < 0 {
		return e.ErrInvalidPrice
	}

	return nil
}

func (p *ProductUseCase) validateUpdate(req *UpdateProductReq) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return e.ErrTitleRequired
	}

	if req.Price != nil && *req.Price < 0 {
		return e.ErrInvalidPrice
	}

	return nil
}

// applyPatch накладывает частичное обновление и сообщает, изменился ли текст,
// из которого строится embedding.
func applyPatch(product *domain.Product, req *UpdateProductReq) bool {
	textChanged := false

	if req.Title != nil && *req.Title != product.Title {
		product.Title = *req.Title
		textChanged = true
	}
	if req.Description != nil && *req.Description != product.Description {
		product.Description = *req.Description
		textChanged = true
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Price != nil {
		product.Price = req.Price
	}

	return textChanged
}

func validateOrdering(ordering string) error {
	switch ordering {
	case "", "price", "-price", "created_at", "-created_at":
		return nil
	default:
		return e.ErrInvalidOrdering
	}
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func normalizePage(page, pageSize *int) {
	if *page < 1 {
		*page = 1
	}
	if *pageSize < 1 {
		*pageSize = defaultPageSize
	}
	if *pageSize > maxPageSize {
		*pageSize = maxPageSize
	}
}
