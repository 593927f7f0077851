package in

import (
	"context"

	cartdto "storefront/internal/modules/cart/dto"
	cartin "storefront/internal/modules/cart/port/in"
)

type CLIHandler struct {
	usecase cartin.Usecase
}

func NewCLIHandler(usecase cartin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, productID int64, quantity int) (cartdto.CartOutput, error) {
	return h.usecase.AddToCart(ctx, cartdto.ItemInput{ProductID: productID, Quantity: quantity})
}

func (h CLIHandler) Remove(ctx context.Context, productID int64) (cartdto.CartOutput, error) {
	return h.usecase.RemoveFromCart(ctx, productID)
}

func (h CLIHandler) Update(ctx context.Context, productID int64, quantity int) (cartdto.CartOutput, error) {
	return h.usecase.UpdateQuantity(ctx, cartdto.ItemInput{ProductID: productID, Quantity: quantity})
}

func (h CLIHandler) Clear(ctx context.Context) (cartdto.CartOutput, error) {
	return h.usecase.ClearCart(ctx)
}

func (h CLIHandler) List(ctx context.Context) cartdto.CartOutput {
	return h.usecase.GetCart(ctx)
}

func (h CLIHandler) Checkout(ctx context.Context) (cartdto.OutcomeOutput, error) {
	return h.usecase.Checkout(ctx)
}

func (h CLIHandler) BuyNow(ctx context.Context, productID int64, quantity int) (cartdto.OutcomeOutput, error) {
	return h.usecase.BuyNow(ctx, cartdto.ItemInput{ProductID: productID, Quantity: quantity})
}

func (h CLIHandler) History(ctx context.Context) cartdto.HistoryOutput {
	return h.usecase.History(ctx)
}

func (h CLIHandler) Export(ctx context.Context) (cartdto.ExportOutput, error) {
	return h.usecase.ExportReceipts(ctx)
}
