package pgdb

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	generated "github.com/DRSN-tech/catalog-service/internal/repository/pgdb/converter/generated"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredColumns() []string {
	return []string{
		"id", "asin", "title", "description", "category", "brand",
		"price", "created_at", "updated_at", "distance",
	}
}

func TestFindSimilarCandidateFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepo(mock, generated.NewProductConverterImpl())

	refPrice := 100.0
	ref := &domain.Product{
		ID:        7,
		Category:  "Electronics",
		Price:     &refPrice,
		Embedding: make([]float32, domain.EmbeddingDim),
	}

	candidatePrice := 129.99
	mock.ExpectQuery(`SELECT .+, embedding <=> \$1 AS distance\s+`+
		`FROM products\s+`+
		`WHERE id <> \$2\s+`+
		`AND embedding IS NOT NULL\s+`+
		`AND \(\$3::text = '' OR category = \$3\)\s+`+
		`AND \(\$4::float8 IS NULL OR price BETWEEN \$4 \* 0\.5 AND \$4 \* 1\.5\)\s+`+
		`ORDER BY embedding <=> \$1\s+`+
		`LIMIT \$5`).
		WithArgs(pgvector.NewVector(ref.Embedding), int64(7), "Electronics", &refPrice, 5).
		WillReturnRows(pgxmock.NewRows(scoredColumns()).AddRow(
			int64(9), "B00CAND01", "Wireless Mouse", "compact", "Electronics", "Logi",
			&candidatePrice, time.Now(), (*time.Time)(nil), 0.12,
		))

	scored, err := repo.FindSimilar(context.Background(), ref, 5)
	require.NoError(t, err)

	require.Len(t, scored, 1)
	assert.Equal(t, int64(9), scored[0].Product.ID)
	assert.InDelta(t, 0.12, scored[0].Distance, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSimilarWithoutCategoryAndPrice(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepo(mock, generated.NewProductConverterImpl())

	// Пустая категория и NULL-цена выключают соответствующие фильтры в SQL
	ref := &domain.Product{ID: 3, Embedding: make([]float32, domain.EmbeddingDim)}

	mock.ExpectQuery(`WHERE id <> \$2\s+AND embedding IS NOT NULL`).
		WithArgs(pgvector.NewVector(ref.Embedding), int64(3), "", (*float64)(nil), 5).
		WillReturnRows(pgxmock.NewRows(scoredColumns()))

	scored, err := repo.FindSimilar(context.Background(), ref, 5)
	require.NoError(t, err)

	assert.Empty(t, scored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchByVectorExcludesMissingEmbeddings(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepo(mock, generated.NewProductConverterImpl())

	vector := make([]float32, domain.EmbeddingDim)

	mock.ExpectQuery(`SELECT count\(\*\) FROM products WHERE embedding IS NOT NULL`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

	mock.ExpectQuery(`FROM products\s+`+
		`WHERE embedding IS NOT NULL\s+`+
		`ORDER BY embedding <=> \$1\s+`+
		`LIMIT \$2 OFFSET \$3`).
		WithArgs(pgvector.NewVector(vector), 10, 20).
		WillReturnRows(pgxmock.NewRows(scoredColumns()).AddRow(
			int64(5), "B00HIT01", "Keyboard", "", "Electronics", "",
			(*float64)(nil), time.Now(), (*time.Time)(nil), 0.4,
		))

	scored, total, err := repo.SearchByVector(context.Background(), vector, 10, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(42), total)
	require.Len(t, scored, 1)
	assert.Equal(t, int64(5), scored[0].Product.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
