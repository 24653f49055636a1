package http

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/usecase"
)

// ProductRequest — тело POST/PUT/PATCH запроса. Цена приходит как
// json.Number, чтобы валидировать точность до привязки к float64.
type ProductRequest struct {
	ASIN        *string      `json:"asin"`
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Category    *string      `json:"category"`
	Brand       *string      `json:"brand"`
	Price       *json.Number `json:"price"`
}

// ProductResponse — представление товара в API. Поля embedding нет.
type ProductResponse struct {
	ID          int64      `json:"id"`
	ASIN        string     `json:"asin"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Brand       string     `json:"brand"`
	Price       *float64   `json:"price"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// ListResponse — страница каталога в стиле count/next/previous/results.
type ListResponse struct {
	Count    int64             `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []ProductResponse `json:"results"`
}

// ScoredProductResponse — товар с косинусной дистанцией до опорного.
type ScoredProductResponse struct {
	ProductResponse
	Distance float64 `json:"distance"`
}

// RecommendationsResponse — рекомендации для товара.
type RecommendationsResponse struct {
	Results []ScoredProductResponse `json:"results"`
}

// SearchHitResponse — результат семантического поиска.
type SearchHitResponse struct {
	ProductResponse
	Distance         float64 `json:"distance"`
	IsHighConfidence bool    `json:"is_high_confidence"`
}

// SearchResponse — страница поисковой выдачи.
type SearchResponse struct {
	Count           int64               `json:"count"`
	Next            *string             `json:"next"`
	Previous        *string             `json:"previous"`
	HasExactMatches bool                `json:"has_exact_matches"`
	Results         []SearchHitResponse `json:"results"`
}

func toProductResponse(info *usecase.ProductInfo) ProductResponse {
	return ProductResponse{
		ID:          info.ID,
		ASIN:        info.ASIN,
		Title:       info.Title,
		Description: info.Description,
		Category:    info.Category,
		Brand:       info.Brand,
		Price:       info.Price,
		CreatedAt:   info.CreatedAt,
		UpdatedAt:   info.UpdatedAt,
	}
}

func toProductResponses(infos []usecase.ProductInfo) []ProductResponse {
	result := make([]ProductResponse, 0, len(infos))
	for i := range infos {
		result = append(result, toProductResponse(&infos[i]))
	}
	return result
}

func toScoredResponses(scored []usecase.ScoredProduct) []ScoredProductResponse {
	result := make([]ScoredProductResponse, 0, len(scored))
	for i := range scored {
		result = append(result, ScoredProductResponse{
			ProductResponse: toProductResponse(&scored[i].Product),
			Distance:        scored[i].Distance,
		})
	}
	return result
}

func toSearchHitResponses(hits []usecase.SearchHit) []SearchHitResponse {
	result := make([]SearchHitResponse, 0, len(hits))
	for i := range hits {
		result = append(result, SearchHitResponse{
			ProductResponse:  toProductResponse(&hits[i].Product),
			Distance:         hits[i].Distance,
			IsHighConfidence: hits[i].IsHighConfidence,
		})
	}
	return result
}
