package usecase

import "context"

type ProductUC interface {
	CreateProduct(ctx context.Context, req *CreateProductReq) (*ProductInfo, error)
	GetProduct(ctx context.Context, id int64) (*ProductInfo, error)
	ListProducts(ctx context.Context, req *ListProductsReq) (*ListProductsRes, error)
	UpdateProduct(ctx context.Context, req *UpdateProductReq) (*ProductInfo, error)
	DeleteProduct(ctx context.Context, id int64) error
	RequestEmbedding(ctx context.Context, productID int64) error
	GenerateEmbedding(ctx context.Context, productID int64) error
	ListProductsMissingEmbedding(ctx context.Context) ([]int64, error)
}

type SearchUC interface {
	Recommend(ctx context.Context, productID int64) (*RecommendationsRes, error)
	Search(ctx context.Context, req *SearchReq) (*SearchRes, error)
}
