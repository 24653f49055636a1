package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
)

const (
	// Дистанции >= 0.7 считаются низкоуверенными совпадениями
	similarityThreshold = 0.7
	recommendationLimit = 5
)

// SearchUseCase реализует рекомендации и семантический поиск по векторам.
type SearchUseCase struct {
	productRepo ProductRepository
	embedder    EmbedderInfra
	logger      logger.Logger
}

func NewSearchUC(productRepo ProductRepository, embedder EmbedderInfra, logger logger.Logger) *SearchUseCase {
	return &SearchUseCase{
		productRepo: productRepo,
		embedder:    embedder,
		logger:      logger,
	}
}

// Recommend возвращает до 5 ближайших товаров к товару productID.
// Кандидаты ограничиваются категорией опорного товара (если задана) и ценовым
// коридором ±50% (если цена задана); сам товар исключается.
func (s *SearchUseCase) Recommend(ctx context.Context, productID int64) (*RecommendationsRes, error) {
	const op = "SearchUseCase.Recommend"

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Вектор ещё не сгенерирован — штатное переходное состояние, не ошибка
	if len(product.Embedding) == 0 {
		s.logger.Warnf("product %d has no embedding, returning empty recommendations", productID)
		return &RecommendationsRes{Products: []ScoredProduct{}}, nil
	}

	scored, err := s.productRepo.FindSimilar(ctx, product, recommendationLimit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &RecommendationsRes{Products: scored}, nil
}

// Search кодирует текст запроса в вектор и ранжирует товары по косинусной
// дистанции. Недоступность кодировщика деградирует до пустой выдачи.
func (s *SearchUseCase) Search(ctx context.Context, req *SearchReq) (*SearchRes, error) {
	const op = "SearchUseCase.Search"

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, e.Wrap(op, e.ErrQueryRequired)
	}
	normalizePage(&req.Page, &req.PageSize)

	vector, err := s.embedder.EncodeText(ctx, query)
	if err != nil {
		s.logger.Errorf(e.Wrap(op, err), "query encoding failed, returning empty result")
		return &SearchRes{Hits: []SearchHit{}}, nil
	}

	offset := (req.Page - 1) * req.PageSize
	scored, total, err := s.productRepo.SearchByVector(ctx, vector, req.PageSize, offset)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	hits := make([]SearchHit, 0, len(scored))
	hasExact := false
	for _, sp := range scored {
		highConfidence := sp.Distance < similarityThreshold
		if highConfidence {
			hasExact = true
		}

		hits = append(hits, SearchHit{
			Product:          sp.Product,
			Distance:         sp.Distance,
			IsHighConfidence: highConfidence,
		})
	}

	return &SearchRes{
		Count:           total,
		HasExactMatches: hasExact,
		Hits:            hits,
	}, nil
}
