package usecase_test

import (
	"context"
	"errors"
	"math"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	cartadapter "storefront/internal/modules/cart/adapter/out"
	"storefront/internal/modules/cart/domain"
	"storefront/internal/modules/cart/dto"
	cartin "storefront/internal/modules/cart/port/in"
	"storefront/internal/modules/cart/service"
	"storefront/internal/modules/cart/usecase"
	catalogdto "storefront/internal/modules/catalog/dto"
	sessionadapter "storefront/internal/modules/session/adapter/out"
	sessionservice "storefront/internal/modules/session/service"
	"storefront/internal/platform/clock"
	apperrors "storefront/internal/platform/errors"
	"storefront/internal/platform/id"
	"storefront/internal/platform/logging"
)

type fakeCatalog struct {
	products map[int64]catalogdto.ProductOutput
	lookups  atomic.Int32
}

func (f *fakeCatalog) ListProducts(context.Context, catalogdto.ListInput) (catalogdto.PageOutput, error) {
	return catalogdto.PageOutput{}, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, productID int64) (catalogdto.ProductOutput, error) {
	f.lookups.Add(1)
	p, ok := f.products[productID]
	if !ok {
		return catalogdto.ProductOutput{}, apperrors.ErrNotFound
	}
	return p, nil
}

func (f *fakeCatalog) GetDetail(context.Context, int64) (catalogdto.DetailOutput, error) {
	return catalogdto.DetailOutput{}, nil
}

func (f *fakeCatalog) ListCategories(context.Context) ([]catalogdto.CategoryOutput, error) {
	return nil, nil
}

type authFlag bool

func (a authFlag) IsAuthenticated(context.Context) bool { return bool(a) }

type countingNavigator struct{ calls int }

func (n *countingNavigator) Navigate(context.Context, string) { n.calls++ }

func setup(t *testing.T, authenticated bool) (*fakeCatalog, *countingNavigator, string, cartin.Usecase) {
	t.Helper()
	ctx := context.Background()
	catalog := &fakeCatalog{products: map[int64]catalogdto.ProductOutput{
		1: {ID: 1, Title: "Essence Mascara", Price: 10, Brand: "Essence", Category: "beauty", DisplayPrice: 160000},
		2: {ID: 2, Title: "Eyeshadow Palette", Price: 20, Category: "beauty"},
	}}
	nav := &countingNavigator{}
	clk := clock.Fixed(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	store := sessionservice.NewStore(ctx, sessionadapter.NewMemoryBlobStore(), authFlag(authenticated), id.UUID{}, logging.Discard())
	svc := service.NewCartService(store, nav, id.NewMillisSequence(clk), clk, 16000, logging.Discard())
	receipts := t.TempDir()
	uc := usecase.NewInteractor(svc, catalog, cartadapter.NewMarkdownReceiptWriter(receipts), usecase.Currency{Code: "IDR", Symbol: "Rp"})
	return catalog, nav, receipts, uc
}

func TestAddToCartResolvesProductAndPrices(t *testing.T) {
	t.Parallel()
	catalog, _, _, uc := setup(t, false)
	ctx := context.Background()

	if _, err := uc.AddToCart(ctx, dto.ItemInput{ProductID: 1, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := uc.AddToCart(ctx, dto.ItemInput{ProductID: 2, Quantity: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := catalog.lookups.Load(); got != 2 {
		t.Fatalf("expected 2 catalog lookups, got %d", got)
	}
	if len(out.Lines) != 2 || out.Items != 3 {
		t.Fatalf("unexpected cart %+v", out)
	}
	if out.Lines[0].UnitPrice != 160000 || out.Lines[0].LineTotal != 320000 {
		t.Fatalf("unexpected line pricing %+v", out.Lines[0])
	}
	if out.Total != 640000 {
		t.Fatalf("unexpected cart total %v", out.Total)
	}

	if _, err := uc.AddToCart(ctx, dto.ItemInput{ProductID: 99, Quantity: 1}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := uc.AddToCart(ctx, dto.ItemInput{ProductID: 1, Quantity: 0}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestGetCartReadsOneSnapshotUnderConcurrentWrites(t *testing.T) {
	t.Parallel()
	_, _, _, uc := setup(t, false)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _ = uc.AddToCart(ctx, dto.ItemInput{ProductID: int64(i%2 + 1), Quantity: 1})
			if i%5 == 4 {
				_, _ = uc.ClearCart(ctx)
			}
		}
	}()
	for i := 0; i < 200; i++ {
		out := uc.GetCart(ctx)
		items, total := 0, 0.0
		for _, line := range out.Lines {
			items += line.Quantity
			total += line.LineTotal
		}
		if items != out.Items || math.Abs(total-out.Total) > 0.001 {
			t.Fatalf("cart summary disagrees with lines: items %d vs %d, total %v vs %v", out.Items, items, out.Total, total)
		}
	}
	wg.Wait()

	history := uc.History(ctx)
	if history.TotalPurchases != 0 || len(history.Records) != 0 {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestUpdateRemoveAndClear(t *testing.T) {
	t.Parallel()
	_, _, _, uc := setup(t, false)
	ctx := context.Background()
	for _, productID := range []int64{1, 2} {
		if _, err := uc.AddToCart(ctx, dto.ItemInput{ProductID: productID, Quantity: 1}); err != nil {
			t.Fatalf("add %d: %v", productID, err)
		}
	}
	out, err := uc.UpdateQuantity(ctx, dto.ItemInput{ProductID: 2, Quantity: 5})
	if err != nil || out.Lines[1].Quantity != 5 {
		t.Fatalf("update: %+v %v", out, err)
	}
	out, err = uc.UpdateQuantity(ctx, dto.ItemInput{ProductID: 1, Quantity: -1})
	if err != nil || len(out.Lines) != 1 || out.Lines[0].ProductID != 2 {
		t.Fatalf("update to negative must remove: %+v %v", out, err)
	}
	out, err = uc.RemoveFromCart(ctx, 7)
	if err != nil || len(out.Lines) != 1 {
		t.Fatalf("remove absent: %+v %v", out, err)
	}
	out, err = uc.ClearCart(ctx)
	if err != nil || len(out.Lines) != 0 || out.Items != 0 {
		t.Fatalf("clear: %+v %v", out, err)
	}
}

func TestCheckoutGateAndReceiptExport(t *testing.T) {
	t.Parallel()
	_, nav, receipts, uc := setup(t, true)
	ctx := context.Background()

	empty, err := uc.Checkout(ctx)
	if err != nil {
		t.Fatalf("checkout empty: %v", err)
	}
	if empty.Completed || empty.Reason != string(domain.ReasonEmptyCart) {
		t.Fatalf("expected empty cart failure, got %+v", empty)
	}

	if _, err := uc.AddToCart(ctx, dto.ItemInput{ProductID: 1, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	outcome, err := uc.Checkout(ctx)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !outcome.Completed || len(outcome.Records) != 1 || outcome.Records[0].Total != 320000 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if outcome.Records[0].Date != "2026-01-02T03:04:05.000Z" {
		t.Fatalf("unexpected date %s", outcome.Records[0].Date)
	}
	if _, err := uc.BuyNow(ctx, dto.ItemInput{ProductID: 2, Quantity: 1}); err != nil {
		t.Fatalf("buy now: %v", err)
	}

	history := uc.History(ctx)
	if len(history.Records) != 2 || history.TotalPurchases != 3 || history.TotalSpent != 640000 {
		t.Fatalf("unexpected history %+v", history)
	}
	if len(uc.GetCart(ctx).Lines) != 0 {
		t.Fatalf("cart must be empty after checkout")
	}
	if nav.calls != 0 {
		t.Fatalf("authenticated purchase must not navigate")
	}

	export, err := uc.ExportReceipts(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(export.Paths) != 2 {
		t.Fatalf("expected 2 receipts, got %v", export.Paths)
	}
	for _, path := range export.Paths {
		if !strings.HasPrefix(path, receipts) {
			t.Fatalf("receipt outside export dir: %s", path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("receipt missing: %v", err)
		}
	}
}

func TestBuyNowWhileLoggedOutNavigatesOnce(t *testing.T) {
	t.Parallel()
	_, nav, _, uc := setup(t, false)
	ctx := context.Background()

	outcome, err := uc.BuyNow(ctx, dto.ItemInput{ProductID: 1, Quantity: 1})
	if err != nil {
		t.Fatalf("buy now: %v", err)
	}
	if outcome.Completed || outcome.Reason != string(domain.ReasonUnauthenticated) {
		t.Fatalf("expected unauthenticated failure, got %+v", outcome)
	}
	if nav.calls != 1 {
		t.Fatalf("expected one navigation, got %d", nav.calls)
	}
	if history := uc.History(ctx); len(history.Records) != 0 || history.TotalPurchases != 0 {
		t.Fatalf("history must be untouched: %+v", history)
	}
}
