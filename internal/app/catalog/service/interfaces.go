package service

import (
	"context"

	"productmanagement/internal/app/catalog/entity"

	"github.com/google/uuid"
)

type CategoryServiceInterface interface {
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Response, error)
}

type CatalogServiceInterface interface {
	CreateProduct(ctx context.Context, req *entity.CreateUpdateProductRequest) (*entity.Response, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.CreateUpdateProductRequest) (*entity.Response, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (*entity.Response, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Response, error)
	ListProducts(ctx context.Context, req *entity.ListProductsRequest, filter *entity.ProductFilter) (*entity.Response, error)
	GetCategoryDropdown(ctx context.Context) (*entity.Response, error)
}
