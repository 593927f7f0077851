package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/modules/catalog/domain"
	catalogout "storefront/internal/modules/catalog/port/out"
	apperrors "storefront/internal/platform/errors"
)

type CatalogService struct {
	gateway catalogout.Gateway
}

func NewCatalogService(gateway catalogout.Gateway) *CatalogService {
	return &CatalogService{gateway: gateway}
}

// List routes to search, category or paged listing; the first non-empty
// filter wins.
func (s *CatalogService) List(ctx context.Context, limit, skip int, category, query string) (domain.Page, error) {
	switch {
	case strings.TrimSpace(query) != "":
		return s.gateway.Search(ctx, strings.TrimSpace(query))
	case strings.TrimSpace(category) != "":
		return s.gateway.ProductsByCategory(ctx, strings.TrimSpace(category))
	default:
		limit, skip = domain.NormalizePaging(limit, skip)
		return s.gateway.ListProducts(ctx, limit, skip)
	}
}

func (s *CatalogService) Product(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, fmt.Errorf("%w: product id must be positive", apperrors.ErrInvalidInput)
	}
	product, err := s.gateway.ProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if err := product.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("catalog product %d: %w", id, err)
	}
	return product, nil
}

// Detail loads a product together with up to ten products from its
// category. A failed recommendation lookup leaves the list empty.
func (s *CatalogService) Detail(ctx context.Context, id int64) (domain.Product, []domain.Product, error) {
	product, err := s.Product(ctx, id)
	if err != nil {
		return domain.Product{}, nil, err
	}
	if product.Category == "" {
		return product, nil, nil
	}
	related, err := s.gateway.ProductsByCategory(ctx, product.Category)
	if err != nil {
		return product, nil, nil
	}
	return product, domain.Recommend(product, related.Products, domain.MaxRecommendations), nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.gateway.Categories(ctx)
}
