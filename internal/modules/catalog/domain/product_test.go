package domain_test

import (
	"testing"

	"storefront/internal/modules/catalog/domain"
)

func TestDisplayPrices(t *testing.T) {
	t.Parallel()
	p := domain.Product{ID: 1, Title: "Mascara", Price: 10, DiscountPercentage: 12.5}
	if got := domain.DisplayPrice(p, 16000); got != 160000 {
		t.Fatalf("unexpected display price %v", got)
	}
	if got := domain.DiscountedDisplayPrice(p, 16000); got != 140000 {
		t.Fatalf("expected discounted price 140000, got %v", got)
	}
	p.Price = 9.99
	p.DiscountPercentage = 0
	if got := domain.DiscountedDisplayPrice(p, 16000); got != 159840 {
		t.Fatalf("expected undiscounted rounded price, got %v", got)
	}
	p.DiscountPercentage = 150
	if got := domain.DiscountedDisplayPrice(p, 16000); got != 0 {
		t.Fatalf("expected discount capped at 100%%, got %v", got)
	}
}

func TestRecommendSkipsCurrentAndCaps(t *testing.T) {
	t.Parallel()
	current := domain.Product{ID: 3}
	var candidates []domain.Product
	for i := int64(1); i <= 15; i++ {
		candidates = append(candidates, domain.Product{ID: i})
	}
	got := domain.Recommend(current, candidates, 0)
	if len(got) != domain.MaxRecommendations {
		t.Fatalf("expected %d recommendations, got %d", domain.MaxRecommendations, len(got))
	}
	for _, p := range got {
		if p.ID == current.ID {
			t.Fatalf("current product must not be recommended")
		}
	}
}

func TestNormalizePaging(t *testing.T) {
	t.Parallel()
	if l, s := domain.NormalizePaging(0, -4); l != 10 || s != 0 {
		t.Fatalf("unexpected defaults %d/%d", l, s)
	}
	if l, _ := domain.NormalizePaging(500, 0); l != domain.MaxPageLimit {
		t.Fatalf("expected cap, got %d", l)
	}
}

func TestProductValidate(t *testing.T) {
	t.Parallel()
	if err := (domain.Product{ID: 1, Title: "x", Price: 1}).Validate(); err != nil {
		t.Fatalf("expected valid product: %v", err)
	}
	if err := (domain.Product{Title: "x"}).Validate(); err == nil {
		t.Fatalf("expected id error")
	}
	if err := (domain.Product{ID: 1, Title: " "}).Validate(); err == nil {
		t.Fatalf("expected title error")
	}
}
