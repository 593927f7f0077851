package domain

import (
	catalogdomain "storefront/internal/modules/catalog/domain"
	sessiondomain "storefront/internal/modules/session/domain"
)

// RouteLogin is where an unauthenticated purchase sends the shopper.
const RouteLogin = "/login"

// Item is one product/quantity pair submitted for purchase.
type Item struct {
	Product  catalogdomain.Product
	Quantity int
}

type FailureReason string

const (
	ReasonNone            FailureReason = ""
	ReasonEmptyCart       FailureReason = "empty_cart"
	ReasonUnauthenticated FailureReason = "unauthenticated"
)

// Outcome reports a purchase attempt. A failed attempt is not an error;
// callers check Completed.
type Outcome struct {
	Completed bool
	Reason    FailureReason
	Records   []sessiondomain.PurchaseRecord
}

func Failed(reason FailureReason) Outcome {
	return Outcome{Reason: reason}
}

type Summary struct {
	Lines          int
	Items          int
	CartTotal      float64
	TotalPurchases int
	TotalSpent     float64
}

// ItemsFromCart turns cart lines into purchase items, keeping cart order.
func ItemsFromCart(lines []sessiondomain.CartLine) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, Item{Product: line.Product, Quantity: line.Quantity})
	}
	return items
}
