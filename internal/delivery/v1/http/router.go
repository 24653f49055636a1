package http

import (
	"time"

	_ "github.com/DRSN-tech/catalog-service/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(prUC usecase.ProductUC, searchUC usecase.SearchUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(prUC, r.logger)
		searchHandler := NewSearchHandler(searchUC, r.logger)
		registerProductRoutes(v1, prHandler, searchHandler)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler, searchHandler *SearchHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", prHandler.createProduct)
		pr.Get("/", prHandler.listProducts)

		// Поиск и рекомендации дергают кодировщик, поэтому под rate limit.
		pr.Group(func(limited chi.Router) {
			limited.Use(httprate.LimitByIP(60, 1*time.Minute))
			limited.Get("/search", searchHandler.search)
			limited.Get("/{id}/recommendations", searchHandler.recommendations)
			limited.Get("/{id}/similar", searchHandler.recommendations) // alias
		})

		pr.Route("/{id}", func(item chi.Router) {
			item.Get("/", prHandler.getProduct)
			item.Put("/", prHandler.updateProduct)
			item.Patch("/", prHandler.updateProduct)
			item.Delete("/", prHandler.deleteProduct)
		})
	})
}
