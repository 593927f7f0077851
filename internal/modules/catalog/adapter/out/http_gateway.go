package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/modules/catalog/domain"
	catalogout "storefront/internal/modules/catalog/port/out"
	apperrors "storefront/internal/platform/errors"
)

const (
	productsPath   = "/products"
	categoriesPath = "/products/categories"
	searchPath     = "/products/search"
	maxErrorBody   = 512
)

type HTTPGateway struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewHTTPGateway(baseURL string, timeout time.Duration, logger *slog.Logger) catalogout.Gateway {
	return NewHTTPGatewayWithClient(baseURL, newHTTPClient(timeout), logger)
}

func NewHTTPGatewayWithClient(baseURL string, client *http.Client, logger *slog.Logger) *HTTPGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  client,
		logger:  logger,
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        16,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

func (g *HTTPGateway) ListProducts(ctx context.Context, limit, skip int) (domain.Page, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("skip", strconv.Itoa(skip))
	page := domain.Page{}
	if err := g.getJSON(ctx, productsPath, query, &page); err != nil {
		return domain.Page{}, fmt.Errorf("list products: %w", err)
	}
	return page, nil
}

func (g *HTTPGateway) ProductsByCategory(ctx context.Context, category string) (domain.Page, error) {
	page := domain.Page{}
	if err := g.getJSON(ctx, productsPath+"/category/"+url.PathEscape(category), nil, &page); err != nil {
		return domain.Page{}, fmt.Errorf("products by category %q: %w", category, err)
	}
	return page, nil
}

// Categories accepts both the legacy string list and the {slug,name,url}
// object list served by newer catalog versions.
func (g *HTTPGateway) Categories(ctx context.Context) ([]domain.Category, error) {
	var raw []json.RawMessage
	if err := g.getJSON(ctx, categoriesPath, nil, &raw); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]domain.Category, 0, len(raw))
	for _, item := range raw {
		var slug string
		if err := json.Unmarshal(item, &slug); err == nil {
			out = append(out, domain.Category{Slug: slug, Name: slug})
			continue
		}
		var obj struct {
			Slug string `json:"slug"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return nil, fmt.Errorf("decode category: %w", err)
		}
		if obj.Name == "" {
			obj.Name = obj.Slug
		}
		out = append(out, domain.Category{Slug: obj.Slug, Name: obj.Name})
	}
	return out, nil
}

func (g *HTTPGateway) Search(ctx context.Context, q string) (domain.Page, error) {
	query := url.Values{}
	query.Set("q", q)
	page := domain.Page{}
	if err := g.getJSON(ctx, searchPath, query, &page); err != nil {
		return domain.Page{}, fmt.Errorf("search products %q: %w", q, err)
	}
	return page, nil
}

func (g *HTTPGateway) ProductByID(ctx context.Context, id int64) (domain.Product, error) {
	product := domain.Product{}
	if err := g.getJSON(ctx, productsPath+"/"+strconv.FormatInt(id, 10), nil, &product); err != nil {
		return domain.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return product, nil
}

func (g *HTTPGateway) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	endpoint := g.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()
	g.logger.Debug("catalog request", "path", path, "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("catalog returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
