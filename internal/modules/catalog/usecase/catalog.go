package usecase

import (
	"context"

	"storefront/internal/modules/catalog/domain"
	"storefront/internal/modules/catalog/dto"
	catalogin "storefront/internal/modules/catalog/port/in"
	"storefront/internal/modules/catalog/service"
)

type Interactor struct {
	svc  *service.CatalogService
	rate float64
}

func NewInteractor(svc *service.CatalogService, rate float64) catalogin.Usecase {
	return &Interactor{svc: svc, rate: rate}
}

func (i *Interactor) ListProducts(ctx context.Context, input dto.ListInput) (dto.PageOutput, error) {
	page, err := i.svc.List(ctx, input.Limit, input.Skip, input.Category, input.Query)
	if err != nil {
		return dto.PageOutput{}, err
	}
	return dto.PageOutput{
		Products: i.toOutputs(page.Products),
		Total:    page.Total,
		Skip:     page.Skip,
		Limit:    page.Limit,
	}, nil
}

func (i *Interactor) GetProduct(ctx context.Context, id int64) (dto.ProductOutput, error) {
	product, err := i.svc.Product(ctx, id)
	if err != nil {
		return dto.ProductOutput{}, err
	}
	return i.toOutput(product), nil
}

func (i *Interactor) GetDetail(ctx context.Context, id int64) (dto.DetailOutput, error) {
	product, related, err := i.svc.Detail(ctx, id)
	if err != nil {
		return dto.DetailOutput{}, err
	}
	return dto.DetailOutput{Product: i.toOutput(product), Recommendations: i.toOutputs(related)}, nil
}

func (i *Interactor) ListCategories(ctx context.Context) ([]dto.CategoryOutput, error) {
	categories, err := i.svc.Categories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryOutput, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryOutput{Slug: c.Slug, Name: c.Name})
	}
	return out, nil
}

func (i *Interactor) toOutputs(products []domain.Product) []dto.ProductOutput {
	out := make([]dto.ProductOutput, 0, len(products))
	for _, p := range products {
		out = append(out, i.toOutput(p))
	}
	return out
}

func (i *Interactor) toOutput(p domain.Product) dto.ProductOutput {
	return dto.ProductOutput{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		Rating:             p.Rating,
		Stock:              p.Stock,
		Brand:              p.Brand,
		Category:           p.Category,
		Thumbnail:          p.Thumbnail,
		Images:             append([]string(nil), p.Images...),
		DisplayPrice:       domain.DisplayPrice(p, i.rate),
		DiscountedPrice:    domain.DiscountedDisplayPrice(p, i.rate),
	}
}
