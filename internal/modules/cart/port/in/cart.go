package in

import (
	"context"

	"storefront/internal/modules/cart/dto"
)

type Usecase interface {
	AddToCart(ctx context.Context, input dto.ItemInput) (dto.CartOutput, error)
	RemoveFromCart(ctx context.Context, productID int64) (dto.CartOutput, error)
	UpdateQuantity(ctx context.Context, input dto.ItemInput) (dto.CartOutput, error)
	ClearCart(ctx context.Context) (dto.CartOutput, error)
	GetCart(ctx context.Context) dto.CartOutput
	Checkout(ctx context.Context) (dto.OutcomeOutput, error)
	BuyNow(ctx context.Context, input dto.ItemInput) (dto.OutcomeOutput, error)
	History(ctx context.Context) dto.HistoryOutput
	ExportReceipts(ctx context.Context) (dto.ExportOutput, error)
}
