package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"storefront/internal/modules/cart/domain"
	cartout "storefront/internal/modules/cart/port/out"
	catalogdomain "storefront/internal/modules/catalog/domain"
	sessiondomain "storefront/internal/modules/session/domain"
	"storefront/internal/platform/clock"
	apperrors "storefront/internal/platform/errors"
	"storefront/internal/platform/id"
	"storefront/internal/platform/money"
)

// CartService holds no state of its own; every operation reads and patches
// the session store atomically.
type CartService struct {
	store  cartout.StateStore
	nav    cartout.Navigator
	ids    id.Sequence
	clock  clock.Clock
	rate   float64
	logger *slog.Logger
}

func NewCartService(store cartout.StateStore, nav cartout.Navigator, ids id.Sequence, clk clock.Clock, rate float64, logger *slog.Logger) *CartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartService{store: store, nav: nav, ids: ids, clock: clk, rate: rate, logger: logger.With("component", "cart")}
}

func (s *CartService) Rate() float64 {
	return s.rate
}

// AddToCart increments an existing line for the product or appends a new one.
func (s *CartService) AddToCart(ctx context.Context, product catalogdomain.Product, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("add to cart: quantity %d: %w", quantity, apperrors.ErrInvalidInput)
	}
	if err := product.Validate(); err != nil {
		return fmt.Errorf("add to cart: %v: %w", err, apperrors.ErrInvalidInput)
	}
	return s.store.Update(ctx, func(state sessiondomain.SessionState) (sessiondomain.Patch, error) {
		cart := state.Cart
		if idx := state.FindLine(product.ID); idx >= 0 {
			cart[idx].Quantity += quantity
		} else {
			cart = append(cart, sessiondomain.CartLine{ID: s.ids.Next(), Product: product, Quantity: quantity})
		}
		return sessiondomain.Patch{}.WithCart(cart), nil
	})
}

// RemoveFromCart drops the line for productID; an absent product is a no-op.
func (s *CartService) RemoveFromCart(ctx context.Context, productID int64) error {
	return s.store.Update(ctx, func(state sessiondomain.SessionState) (sessiondomain.Patch, error) {
		if state.FindLine(productID) < 0 {
			return sessiondomain.Patch{}, nil
		}
		cart := make([]sessiondomain.CartLine, 0, len(state.Cart)-1)
		for _, line := range state.Cart {
			if line.Product.ID != productID {
				cart = append(cart, line)
			}
		}
		return sessiondomain.Patch{}.WithCart(cart), nil
	})
}

// UpdateCartQuantity sets an absolute quantity. Zero or less removes the line.
func (s *CartService) UpdateCartQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, productID)
	}
	return s.store.Update(ctx, func(state sessiondomain.SessionState) (sessiondomain.Patch, error) {
		idx := state.FindLine(productID)
		if idx < 0 || state.Cart[idx].Quantity == quantity {
			return sessiondomain.Patch{}, nil
		}
		cart := state.Cart
		cart[idx].Quantity = quantity
		return sessiondomain.Patch{}.WithCart(cart), nil
	})
}

func (s *CartService) ClearCart(ctx context.Context) error {
	return s.store.Update(ctx, func(sessiondomain.SessionState) (sessiondomain.Patch, error) {
		return sessiondomain.Patch{}.WithCart([]sessiondomain.CartLine{}), nil
	})
}

// AddToPurchaseHistory appends one record per item, in input order, and
// updates both totals in the same patch.
func (s *CartService) AddToPurchaseHistory(ctx context.Context, items []domain.Item) ([]sessiondomain.PurchaseRecord, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	var records []sessiondomain.PurchaseRecord
	err := s.store.Update(ctx, func(state sessiondomain.SessionState) (sessiondomain.Patch, error) {
		records = s.records(items)
		return sessiondomain.Patch{}.WithPurchaseHistory(append(state.PurchaseHistory, records...)), nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ProcessPurchase is the authentication gate. Without a signed-in profile it
// navigates to the login surface once and leaves the state untouched.
func (s *CartService) ProcessPurchase(ctx context.Context, items []domain.Item) (domain.Outcome, error) {
	return s.purchase(ctx, func(sessiondomain.SessionState) ([]domain.Item, bool, error) {
		return items, false, validateItems(items)
	})
}

// BuyNow purchases a single product without reading or touching the cart.
func (s *CartService) BuyNow(ctx context.Context, product catalogdomain.Product, quantity int) (domain.Outcome, error) {
	return s.ProcessPurchase(ctx, []domain.Item{{Product: product, Quantity: quantity}})
}

// Checkout buys every cart line and empties the cart in the same patch.
// A failed checkout leaves the cart as it was.
func (s *CartService) Checkout(ctx context.Context) (domain.Outcome, error) {
	return s.purchase(ctx, func(state sessiondomain.SessionState) ([]domain.Item, bool, error) {
		if len(state.Cart) == 0 {
			return nil, true, apperrors.ErrEmptyCart
		}
		return domain.ItemsFromCart(state.Cart), true, nil
	})
}

func (s *CartService) Cart() []sessiondomain.CartLine {
	return s.store.GetState().Cart
}

func (s *CartService) History() []sessiondomain.PurchaseRecord {
	return s.store.GetState().PurchaseHistory
}

func (s *CartService) Summary() domain.Summary {
	return s.summarize(s.store.GetState())
}

// Snapshot returns one state read together with the summary derived from it.
func (s *CartService) Snapshot() (sessiondomain.SessionState, domain.Summary) {
	state := s.store.GetState()
	return state, s.summarize(state)
}

func (s *CartService) summarize(state sessiondomain.SessionState) domain.Summary {
	summary := domain.Summary{
		Lines:          len(state.Cart),
		Items:          state.CartItemCount(),
		TotalPurchases: state.TotalPurchases,
		TotalSpent:     state.TotalSpent,
	}
	for _, line := range state.Cart {
		summary.CartTotal += money.Convert(line.Product.Price, line.Quantity, s.rate)
	}
	return summary
}

type selectItems func(state sessiondomain.SessionState) (items []domain.Item, clearCart bool, err error)

func (s *CartService) purchase(ctx context.Context, selectFn selectItems) (domain.Outcome, error) {
	var records []sessiondomain.PurchaseRecord
	err := s.store.Update(ctx, func(state sessiondomain.SessionState) (sessiondomain.Patch, error) {
		items, clearCart, err := selectFn(state)
		if err != nil {
			return sessiondomain.Patch{}, err
		}
		if !state.Authenticated() {
			return sessiondomain.Patch{}, apperrors.ErrLoginRequired
		}
		records = s.records(items)
		patch := sessiondomain.Patch{}.WithPurchaseHistory(append(state.PurchaseHistory, records...))
		if clearCart {
			patch = patch.WithCart([]sessiondomain.CartLine{})
		}
		return patch, nil
	})
	switch {
	case err == nil:
		s.logger.Info("purchase completed", "records", len(records))
		return domain.Outcome{Completed: true, Records: records}, nil
	case errors.Is(err, apperrors.ErrEmptyCart):
		return domain.Failed(domain.ReasonEmptyCart), nil
	case errors.Is(err, apperrors.ErrLoginRequired):
		s.logger.Info("purchase requires login", "route", domain.RouteLogin)
		if s.nav != nil {
			s.nav.Navigate(ctx, domain.RouteLogin)
		}
		return domain.Failed(domain.ReasonUnauthenticated), nil
	default:
		return domain.Outcome{}, err
	}
}

// records must run inside a store update so ids and timestamps follow
// dispatch order.
func (s *CartService) records(items []domain.Item) []sessiondomain.PurchaseRecord {
	date := s.clock.Now().UTC().Format(sessiondomain.PurchaseDateLayout)
	out := make([]sessiondomain.PurchaseRecord, 0, len(items))
	for _, item := range items {
		out = append(out, sessiondomain.PurchaseRecord{
			ID:        s.ids.Next(),
			ProductID: item.Product.ID,
			Product:   item.Product,
			Quantity:  item.Quantity,
			Total:     money.Convert(item.Product.Price, item.Quantity, s.rate),
			Date:      date,
		})
	}
	return out
}

func validateItems(items []domain.Item) error {
	if len(items) == 0 {
		return fmt.Errorf("purchase: no items: %w", apperrors.ErrInvalidInput)
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("purchase %d: quantity %d: %w", item.Product.ID, item.Quantity, apperrors.ErrInvalidInput)
		}
		if err := item.Product.Validate(); err != nil {
			return fmt.Errorf("purchase: %v: %w", err, apperrors.ErrInvalidInput)
		}
	}
	return nil
}
