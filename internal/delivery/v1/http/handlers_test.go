package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductUC struct {
	createFn func(ctx context.Context, req *usecase.CreateProductReq) (*usecase.ProductInfo, error)
	getFn    func(ctx context.Context, id int64) (*usecase.ProductInfo, error)
	listFn   func(ctx context.Context, req *usecase.ListProductsReq) (*usecase.ListProductsRes, error)
	updateFn func(ctx context.Context, req *usecase.UpdateProductReq) (*usecase.ProductInfo, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (f *fakeProductUC) CreateProduct(ctx context.Context, req *usecase.CreateProductReq) (*usecase.ProductInfo, error) {
	return f.createFn(ctx, req)
}

func (f *fakeProductUC) GetProduct(ctx context.Context, id int64) (*usecase.ProductInfo, error) {
	return f.getFn(ctx, id)
}

func (f *fakeProductUC) ListProducts(ctx context.Context, req *usecase.ListProductsReq) (*usecase.ListProductsRes, error) {
	return f.listFn(ctx, req)
}

func (f *fakeProductUC) UpdateProduct(ctx context.Context, req *usecase.UpdateProductReq) (*usecase.ProductInfo, error) {
	return f.updateFn(ctx, req)
}

func (f *fakeProductUC) DeleteProduct(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeProductUC) RequestEmbedding(ctx context.Context, productID int64) error { return nil }
func (f *fakeProductUC) GenerateEmbedding(ctx context.Context, productID int64) error {
	return nil
}
func (f *fakeProductUC) ListProductsMissingEmbedding(ctx context.Context) ([]int64, error) {
	return nil, nil
}

type fakeSearchUC struct {
	recommendFn func(ctx context.Context, productID int64) (*usecase.RecommendationsRes, error)
	searchFn    func(ctx context.Context, req *usecase.SearchReq) (*usecase.SearchRes, error)
}

func (f *fakeSearchUC) Recommend(ctx context.Context, productID int64) (*usecase.RecommendationsRes, error) {
	return f.recommendFn(ctx, productID)
}

func (f *fakeSearchUC) Search(ctx context.Context, req *usecase.SearchReq) (*usecase.SearchRes, error) {
	return f.searchFn(ctx, req)
}

func newTestRouter(prUC usecase.ProductUC, searchUC usecase.SearchUC) *chi.Mux {
	r := chi.NewRouter()
	NewRouter(r, logger.NewNoopLogger()).Init(prUC, searchUC)
	return r
}

func infoFixture(id int64) *usecase.ProductInfo {
	price := 49.99
	return &usecase.ProductInfo{
		ID:          id,
		ASIN:        "B00FIXTURE",
		Title:       "Mechanical Keyboard",
		Description: "Tenkeyless",
		Category:    "Electronics",
		Brand:       "Acme",
		Price:       &price,
		CreatedAt:   time.Now().UTC(),
	}
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetProductResponseHasNoEmbedding(t *testing.T) {
	prUC := &fakeProductUC{
		getFn: func(ctx context.Context, id int64) (*usecase.ProductInfo, error) {
			return infoFixture(id), nil
		},
	}
	router := newTestRouter(prUC, &fakeSearchUC{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))

	assert.NotContains(t, raw, "embedding", "vector must never leak into API responses")
	assert.Contains(t, raw, "asin")
	assert.Contains(t, raw, "price")
}

func TestGetProductNotFound(t *testing.T) {
	prUC := &fakeProductUC{
		getFn: func(ctx context.Context, id int64) (*usecase.ProductInfo, error) {
			return nil, e.Wrap("ProductUseCase.GetProduct", e.ErrProductNotFound)
		},
	}
	router := newTestRouter(prUC, &fakeSearchUC{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, body.Code)
}

func TestGetProductBadID(t *testing.T) {
	router := newTestRouter(&fakeProductUC{}, &fakeSearchUC{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProduct(t *testing.T) {
	var gotReq *usecase.CreateProductReq
	prUC := &fakeProductUC{
		createFn: func(ctx context.Context, req *usecase.CreateProductReq) (*usecase.ProductInfo, error) {
			gotReq = req
			return infoFixture(10), nil
		},
	}
	router := newTestRouter(prUC, &fakeSearchUC{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products",
		`{"asin":"B00NEW","title":"New thing","price":12.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, gotReq)
	assert.Equal(t, "B00NEW", gotReq.ASIN)
	require.NotNil(t, gotReq.Price)
	assert.Equal(t, 12.5, *gotReq.Price)
}

func TestCreateProductInvalidBody(t *testing.T) {
	router := newTestRouter(&fakeProductUC{}, &fakeSearchUC{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProductPricePrecision(t *testing.T) {
	router := newTestRouter(&fakeProductUC{}, &fakeSearchUC{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products",
		`{"asin":"B00X","title":"x","price":9.999}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, e.ErrPricePrecision.Error(), body.Message)
}

func TestCreateProductValidationError(t *testing.T) {
	prUC := &fakeProductUC{
		createFn: func(ctx context.Context, req *usecase.CreateProductReq) (*usecase.ProductInfo, error) {
			return nil, e.Wrap("ProductUseCase.CreateProduct", e.ErrASINRequired)
		},
	}
	router := newTestRouter(prUC, &fakeSearchUC{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products", `{"title":"no asin"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProductsEnvelope(t *testing.T) {
	prUC := &fakeProductUC{
		listFn: func(ctx context.Context, req *usecase.ListProductsReq) (*usecase.ListProductsRes, error) {
			// имитация нормализации страницы в usecase
			if req.Page < 1 {
				req.Page = 1
			}
			if req.PageSize < 1 {
				req.PageSize = 10
			}
			return &usecase.ListProductsRes{
				Count:    25,
				Products: []usecase.ProductInfo{*infoFixture(1), *infoFixture(2)},
			}, nil
		},
	}
	router := newTestRouter(prUC, &fakeSearchUC{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products?page=2&page_size=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, int64(25), body.Count)
	require.NotNil(t, body.Next)
	assert.Contains(t, *body.Next, "page=3")
	require.NotNil(t, body.Previous)
	assert.Contains(t, *body.Previous, "page=1")
	assert.Len(t, body.Results, 2)
}

func TestUpdateProductPartial(t *testing.T) {
	var gotReq *usecase.UpdateProductReq
	prUC := &fakeProductUC{
		updateFn: func(ctx context.Context, req *usecase.UpdateProductReq) (*usecase.ProductInfo, error) {
			gotReq = req
			return infoFixture(req.ID), nil
		},
	}
	router := newTestRouter(prUC, &fakeSearchUC{})

	rec := doRequest(t, router, http.MethodPatch, "/api/v1/products/5", `{"title":"Renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, gotReq)
	assert.Equal(t, int64(5), gotReq.ID)
	require.NotNil(t, gotReq.Title)
	assert.Equal(t, "Renamed", *gotReq.Title)
	assert.Nil(t, gotReq.Description, "absent fields must stay nil")
	assert.Nil(t, gotReq.Price)
}

func TestDeleteProduct(t *testing.T) {
	prUC := &fakeProductUC{
		deleteFn: func(ctx context.Context, id int64) error { return nil },
	}
	router := newTestRouter(prUC, &fakeSearchUC{})

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/products/5", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestSearchMissingQuery(t *testing.T) {
	searchUC := &fakeSearchUC{
		searchFn: func(ctx context.Context, req *usecase.SearchReq) (*usecase.SearchRes, error) {
			return nil, e.Wrap("SearchUseCase.Search", e.ErrQueryRequired)
		},
	}
	router := newTestRouter(&fakeProductUC{}, searchUC)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/search", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, e.ErrQueryRequired.Error(), body.Message)
}

func TestSearchResponseShape(t *testing.T) {
	searchUC := &fakeSearchUC{
		searchFn: func(ctx context.Context, req *usecase.SearchReq) (*usecase.SearchRes, error) {
			req.Page, req.PageSize = 1, 10
			return &usecase.SearchRes{
				Count:           2,
				HasExactMatches: true,
				Hits: []usecase.SearchHit{
					{Product: *infoFixture(1), Distance: 0.12, IsHighConfidence: true},
					{Product: *infoFixture(2), Distance: 0.81, IsHighConfidence: false},
				},
			}, nil
		},
	}
	router := newTestRouter(&fakeProductUC{}, searchUC)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/search?q=keyboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Contains(t, raw, "has_exact_matches")
	assert.Contains(t, raw, "results")

	var body SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.HasExactMatches)
	require.Len(t, body.Results, 2)
	assert.True(t, body.Results[0].IsHighConfidence)
	assert.False(t, body.Results[1].IsHighConfidence)
	assert.Equal(t, 0.12, body.Results[0].Distance)
}

func TestRecommendationsRoutes(t *testing.T) {
	searchUC := &fakeSearchUC{
		recommendFn: func(ctx context.Context, productID int64) (*usecase.RecommendationsRes, error) {
			return &usecase.RecommendationsRes{
				Products: []usecase.ScoredProduct{{Product: *infoFixture(2), Distance: 0.3}},
			}, nil
		},
	}
	router := newTestRouter(&fakeProductUC{}, searchUC)

	// основной путь и alias отдают одно и то же
	for _, path := range []string{"/api/v1/products/1/recommendations", "/api/v1/products/1/similar"} {
		rec := doRequest(t, router, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)

		var body RecommendationsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Results, 1)
		assert.Equal(t, 0.3, body.Results[0].Distance)
	}
}

func TestRecommendationsNotFound(t *testing.T) {
	searchUC := &fakeSearchUC{
		recommendFn: func(ctx context.Context, productID int64) (*usecase.RecommendationsRes, error) {
			return nil, e.Wrap("SearchUseCase.Recommend", e.ErrProductNotFound)
		},
	}
	router := newTestRouter(&fakeProductUC{}, searchUC)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/999/recommendations", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
