package domain

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultPageLimit       = 10
	MaxPageLimit           = 100
	MaxRecommendations     = 10
	discountPercentCeiling = 100
)

// Product mirrors the catalog wire format. Prices are in the catalog's
// source currency (USD).
type Product struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage,omitempty"`
	Rating             float64  `json:"rating,omitempty"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand,omitempty"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail,omitempty"`
	Images             []string `json:"images,omitempty"`
}

type Page struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

type Category struct {
	Slug string
	Name string
}

func (p Product) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("product id must be positive")
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("product title is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("product price must be non-negative")
	}
	return nil
}

// DisplayPrice is the undiscounted unit price in the display currency.
// Purchases are always charged at this price.
func DisplayPrice(p Product, rate float64) float64 {
	return p.Price * rate
}

// DiscountedDisplayPrice is shown next to the list price on product pages.
func DiscountedDisplayPrice(p Product, rate float64) float64 {
	pct := p.DiscountPercentage
	if pct <= 0 {
		return math.Round(DisplayPrice(p, rate))
	}
	if pct > discountPercentCeiling {
		pct = discountPercentCeiling
	}
	return math.Round(DisplayPrice(p, rate) * (1 - pct/100))
}

// Recommend picks up to limit products from candidates, skipping the product
// being viewed.
func Recommend(current Product, candidates []Product, limit int) []Product {
	if limit <= 0 {
		limit = MaxRecommendations
	}
	out := make([]Product, 0, limit)
	for _, c := range candidates {
		if c.ID == current.ID {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out
}

// NormalizePaging applies the default page size and bounds.
func NormalizePaging(limit, skip int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if skip < 0 {
		skip = 0
	}
	return limit, skip
}
