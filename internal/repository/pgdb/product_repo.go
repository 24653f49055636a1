package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
	pgvector "github.com/pgvector/pgvector-go"
)

const productColumns = "id, asin, title, description, category, brand, price, created_at, updated_at"

// ProductRepo реализует репозиторий товаров поверх PostgreSQL + pgvector.
type ProductRepo struct {
	pool PgxPool
	conv converter.ProductConverter
}

func NewProductRepo(pool PgxPool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет новый товар. Дубликат asin возвращает e.ErrDuplicateASIN.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO products (asin, title, description, category, brand, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns + `;
	`

	var model converter.ProductModel
	err = tx.QueryRow(ctx, query,
		product.ASIN, product.Title, product.Description,
		product.Category, product.Brand, product.Price,
	).Scan(
		&model.ID, &model.ASIN, &model.Title, &model.Description,
		&model.Category, &model.Brand, &model.Price,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrDuplicateASIN)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// GetByID возвращает товар вместе с embedding-вектором (нужен рекомендациям).
func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `, embedding
		FROM products
		WHERE id = $1;
	`

	var model converter.ProductModel
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&model.ID, &model.ASIN, &model.Title, &model.Description,
		&model.Category, &model.Brand, &model.Price,
		&model.CreatedAt, &model.UpdatedAt, &model.Embedding,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// List возвращает страницу каталога и общее число строк под фильтрами.
func (p *ProductRepo) List(ctx context.Context, req *usecase.ListProductsReq) ([]domain.Product, int64, error) {
	where, args := buildListFilters(req)

	var total int64
	countQuery := "SELECT count(*) FROM products" + where
	if err := p.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM products%s ORDER BY %s LIMIT $%d OFFSET $%d",
		productColumns, where, orderClause(req.Ordering), len(args)+1, len(args)+2,
	)
	args = append(args, req.PageSize, (req.Page-1)*req.PageSize)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, req.PageSize)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.ASIN, &model.Title, &model.Description,
			&model.Category, &model.Brand, &model.Price,
			&model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}

		products = append(products, *p.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return products, total, nil
}

// Update перезаписывает редактируемые поля товара, включая embedding
// (nil сбрасывает вектор до повторной генерации).
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET title = $2,
		    description = $3,
		    category = $4,
		    brand = $5,
		    price = $6,
		    embedding = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns + `;
	`

	model := p.conv.ToModel(product)
	err = tx.QueryRow(ctx, query,
		product.ID, product.Title, product.Description,
		product.Category, product.Brand, product.Price, model.Embedding,
	).Scan(
		&model.ID, &model.ASIN, &model.Title, &model.Description,
		&model.Category, &model.Brand, &model.Price,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// Delete безусловно удаляет товар.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	result, err := p.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// SetEmbedding записывает только embedding-вектор, не трогая остальные поля:
// параллельные правки текста и цены не затираются фоновым заданием.
func (p *ProductRepo) SetEmbedding(ctx context.Context, id int64, vector []float32) error {
	if len(vector) == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrEmptyVector)
	}

	query := `
		UPDATE products
		SET embedding = $2, updated_at = NOW()
		WHERE id = $1;
	`

	result, err := p.pool.Exec(ctx, query, id, pgvector.NewVector(vector))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		// Товар удалён между постановкой задания и записью вектора
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// FindSimilar ранжирует кандидатов по косинусной дистанции (оператор <=>,
// обслуживается HNSW-индексом). Строки без вектора из ранжирования исключены.
func (p *ProductRepo) FindSimilar(ctx context.Context, ref *domain.Product, limit int) ([]usecase.ScoredProduct, error) {
	query := `
		SELECT ` + productColumns + `, embedding <=> $1 AS distance
		FROM products
		WHERE id <> $2
		  AND embedding IS NOT NULL
		  AND ($3::text = '' OR category = $3)
		  AND ($4::float8 IS NULL OR price BETWEEN $4 * 0.5 AND $4 * 1.5)
		ORDER BY embedding <=> $1
		LIMIT $5;
	`

	rows, err := p.pool.Query(ctx, query,
		pgvector.NewVector(ref.Embedding), ref.ID, ref.Category, ref.Price, limit,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return p.scanScored(rows)
}

// SearchByVector ранжирует весь каталог по дистанции до вектора запроса.
func (p *ProductRepo) SearchByVector(ctx context.Context, vector []float32, limit, offset int) ([]usecase.ScoredProduct, int64, error) {
	var total int64
	err := p.pool.QueryRow(ctx, "SELECT count(*) FROM products WHERE embedding IS NOT NULL").Scan(&total)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		SELECT ` + productColumns + `, embedding <=> $1 AS distance
		FROM products
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2 OFFSET $3;
	`

	rows, err := p.pool.Query(ctx, query, pgvector.NewVector(vector), limit, offset)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	scored, err := p.scanScored(rows)
	if err != nil {
		return nil, 0, err
	}

	return scored, total, nil
}

// ListIDsMissingEmbedding возвращает ID товаров без вектора (для backfill).
func (p *ProductRepo) ListIDsMissingEmbedding(ctx context.Context) ([]int64, error) {
	rows, err := p.pool.Query(ctx, "SELECT id FROM products WHERE embedding IS NULL ORDER BY id")
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return ids, nil
}

func (p *ProductRepo) scanScored(rows pgx.Rows) ([]usecase.ScoredProduct, error) {
	result := make([]usecase.ScoredProduct, 0)
	for rows.Next() {
		var (
			model    converter.ProductModel
			distance float64
		)

		if err := rows.Scan(
			&model.ID, &model.ASIN, &model.Title, &model.Description,
			&model.Category, &model.Brand, &model.Price,
			&model.CreatedAt, &model.UpdatedAt, &distance,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, usecase.NewScoredProduct(p.conv.ToEntity(&model), distance))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func buildListFilters(req *usecase.ListProductsReq) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if req.Category != "" {
		args = append(args, req.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// orderClause транслирует ordering-параметр API в SQL.
// Допустимые значения проверяются на уровне usecase.
func orderClause(ordering string) string {
	switch ordering {
	case "price":
		return "price ASC NULLS LAST, id ASC"
	case "-price":
		return "price DESC NULLS LAST, id ASC"
	case "created_at":
		return "created_at ASC, id ASC"
	case "-created_at":
		return "created_at DESC, id DESC"
	default:
		return "id ASC"
	}
}
