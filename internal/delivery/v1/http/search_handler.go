package http

import (
	"net/http"

	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
)

type SearchHandler struct {
	searchUsecase usecase.SearchUC
	logger        logger.Logger
}

func NewSearchHandler(searchUsecase usecase.SearchUC, logger logger.Logger) *SearchHandler {
	return &SearchHandler{searchUsecase: searchUsecase, logger: logger}
}

// search
//
//	@Summary		Семантический поиск
//	@Description	Ранжирует каталог по косинусной близости к запросу. При недоступности кодировщика отдаёт пустую выдачу.
//	@Tags			search
//	@Produce		json
//	@Param			q			query		string	true	"Поисковый запрос"
//	@Param			page		query		int		false	"Номер страницы"
//	@Param			page_size	query		int		false	"Размер страницы (максимум 100)"
//	@Success		200			{object}	SearchResponse
//	@Failure		400			{object}	ErrorResponse	"Пустой запрос"
//	@Router			/products/search [get]
func (s *SearchHandler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize := parsePagination(q)

	req := &usecase.SearchReq{
		Query:    q.Get("q"),
		Page:     page,
		PageSize: pageSize,
	}

	res, err := s.searchUsecase.Search(r.Context(), req)
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, SearchResponse{
		Count:           res.Count,
		Next:            pageURL(r, req.Page+1, res.Count, req.PageSize),
		Previous:        pageURL(r, req.Page-1, res.Count, req.PageSize),
		HasExactMatches: res.HasExactMatches,
		Results:         toSearchHitResponses(res.Hits),
	})
}

// recommendations
//
//	@Summary		Рекомендации похожих товаров
//	@Description	До пяти ближайших товаров той же категории в ценовом диапазоне 50-150% от опорного
//	@Tags			search
//	@Produce		json
//	@Param			id	path		int	true	"ID опорного товара"
//	@Success		200	{object}	RecommendationsResponse
//	@Failure		404	{object}	ErrorResponse	"Товар не найден"
//	@Router			/products/{id}/recommendations [get]
func (s *SearchHandler) recommendations(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := s.searchUsecase.Recommend(r.Context(), id)
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, RecommendationsResponse{
		Results: toScoredResponses(res.Products),
	})
}
