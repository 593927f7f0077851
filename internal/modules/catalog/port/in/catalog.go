package in

import (
	"context"

	"storefront/internal/modules/catalog/dto"
)

type Usecase interface {
	ListProducts(ctx context.Context, input dto.ListInput) (dto.PageOutput, error)
	GetProduct(ctx context.Context, id int64) (dto.ProductOutput, error)
	GetDetail(ctx context.Context, id int64) (dto.DetailOutput, error)
	ListCategories(ctx context.Context) ([]dto.CategoryOutput, error)
}
