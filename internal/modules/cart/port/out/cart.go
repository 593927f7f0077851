package out

import (
	"context"

	sessiondomain "storefront/internal/modules/session/domain"
)

// StateStore is the session store surface the cart mutates through.
type StateStore interface {
	GetState() sessiondomain.SessionState
	Update(ctx context.Context, fn func(sessiondomain.SessionState) (sessiondomain.Patch, error)) error
}

// Navigator moves the shopper to another surface, e.g. the login form.
type Navigator interface {
	Navigate(ctx context.Context, route string)
}

type Receipt struct {
	Record       sessiondomain.PurchaseRecord
	CurrencyCode string
	Symbol       string
	Rate         float64
}

// ReceiptWriter exports purchase records and returns where each one landed.
type ReceiptWriter interface {
	Write(ctx context.Context, receipt Receipt) (string, error)
}
