package in

import (
	"context"

	catalogdto "storefront/internal/modules/catalog/dto"
	catalogin "storefront/internal/modules/catalog/port/in"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListProducts(ctx context.Context, limit, skip int, category, query string) (catalogdto.PageOutput, error) {
	return h.usecase.ListProducts(ctx, catalogdto.ListInput{Limit: limit, Skip: skip, Category: category, Query: query})
}

func (h CLIHandler) GetProduct(ctx context.Context, id int64) (catalogdto.ProductOutput, error) {
	return h.usecase.GetProduct(ctx, id)
}

func (h CLIHandler) GetDetail(ctx context.Context, id int64) (catalogdto.DetailOutput, error) {
	return h.usecase.GetDetail(ctx, id)
}

func (h CLIHandler) ListCategories(ctx context.Context) ([]catalogdto.CategoryOutput, error) {
	return h.usecase.ListCategories(ctx)
}
