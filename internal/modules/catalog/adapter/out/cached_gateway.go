package out

import (
	"context"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"storefront/internal/modules/catalog/domain"
	catalogout "storefront/internal/modules/catalog/port/out"
)

const categoriesKey = "categories"

// CachedGateway keeps recent catalog responses in expiring LRU caches.
// Products seen in any listing are also cached by id so that detail lookups
// after browsing do not hit the network.
type CachedGateway struct {
	next       catalogout.Gateway
	pages      *expirable.LRU[string, domain.Page]
	products   *expirable.LRU[int64, domain.Product]
	categories *expirable.LRU[string, []domain.Category]
}

func NewCachedGateway(next catalogout.Gateway, size int, ttl time.Duration) catalogout.Gateway {
	if size <= 0 || ttl <= 0 {
		return next
	}
	return &CachedGateway{
		next:       next,
		pages:      expirable.NewLRU[string, domain.Page](size, nil, ttl),
		products:   expirable.NewLRU[int64, domain.Product](size, nil, ttl),
		categories: expirable.NewLRU[string, []domain.Category](1, nil, ttl),
	}
}

func (c *CachedGateway) ListProducts(ctx context.Context, limit, skip int) (domain.Page, error) {
	return c.page(ctx, "list:"+strconv.Itoa(limit)+":"+strconv.Itoa(skip), func() (domain.Page, error) {
		return c.next.ListProducts(ctx, limit, skip)
	})
}

func (c *CachedGateway) ProductsByCategory(ctx context.Context, category string) (domain.Page, error) {
	return c.page(ctx, "category:"+category, func() (domain.Page, error) {
		return c.next.ProductsByCategory(ctx, category)
	})
}

func (c *CachedGateway) Search(ctx context.Context, query string) (domain.Page, error) {
	return c.page(ctx, "search:"+query, func() (domain.Page, error) {
		return c.next.Search(ctx, query)
	})
}

func (c *CachedGateway) Categories(ctx context.Context) ([]domain.Category, error) {
	if cached, ok := c.categories.Get(categoriesKey); ok {
		return cached, nil
	}
	out, err := c.next.Categories(ctx)
	if err != nil {
		return nil, err
	}
	c.categories.Add(categoriesKey, out)
	return out, nil
}

func (c *CachedGateway) ProductByID(ctx context.Context, id int64) (domain.Product, error) {
	if cached, ok := c.products.Get(id); ok {
		return cached, nil
	}
	product, err := c.next.ProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	c.products.Add(id, product)
	return product, nil
}

func (c *CachedGateway) page(_ context.Context, key string, load func() (domain.Page, error)) (domain.Page, error) {
	if cached, ok := c.pages.Get(key); ok {
		return cached, nil
	}
	page, err := load()
	if err != nil {
		return domain.Page{}, err
	}
	c.pages.Add(key, page)
	for _, p := range page.Products {
		c.products.Add(p.ID, p)
	}
	return page, nil
}
