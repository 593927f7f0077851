package out

import (
	"context"

	"storefront/internal/modules/catalog/domain"
)

// Gateway is the read-only remote product catalog.
type Gateway interface {
	ListProducts(ctx context.Context, limit, skip int) (domain.Page, error)
	ProductsByCategory(ctx context.Context, category string) (domain.Page, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Search(ctx context.Context, query string) (domain.Page, error)
	ProductByID(ctx context.Context, id int64) (domain.Product, error)
}
