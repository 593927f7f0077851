package usecase

import (
	"context"
	"fmt"

	"storefront/internal/modules/cart/domain"
	"storefront/internal/modules/cart/dto"
	cartin "storefront/internal/modules/cart/port/in"
	cartout "storefront/internal/modules/cart/port/out"
	"storefront/internal/modules/cart/service"
	catalogdomain "storefront/internal/modules/catalog/domain"
	catalogdto "storefront/internal/modules/catalog/dto"
	catalogin "storefront/internal/modules/catalog/port/in"
	sessiondomain "storefront/internal/modules/session/domain"
	"storefront/internal/platform/money"
)

type Currency struct {
	Code   string
	Symbol string
}

type Interactor struct {
	svc      *service.CartService
	catalog  catalogin.Usecase
	receipts cartout.ReceiptWriter
	currency Currency
}

func NewInteractor(svc *service.CartService, catalog catalogin.Usecase, receipts cartout.ReceiptWriter, currency Currency) cartin.Usecase {
	return &Interactor{svc: svc, catalog: catalog, receipts: receipts, currency: currency}
}

func (i *Interactor) AddToCart(ctx context.Context, input dto.ItemInput) (dto.CartOutput, error) {
	product, err := i.product(ctx, input.ProductID)
	if err != nil {
		return dto.CartOutput{}, err
	}
	if err := i.svc.AddToCart(ctx, product, input.Quantity); err != nil {
		return dto.CartOutput{}, err
	}
	return i.GetCart(ctx), nil
}

func (i *Interactor) RemoveFromCart(ctx context.Context, productID int64) (dto.CartOutput, error) {
	if err := i.svc.RemoveFromCart(ctx, productID); err != nil {
		return dto.CartOutput{}, err
	}
	return i.GetCart(ctx), nil
}

func (i *Interactor) UpdateQuantity(ctx context.Context, input dto.ItemInput) (dto.CartOutput, error) {
	if err := i.svc.UpdateCartQuantity(ctx, input.ProductID, input.Quantity); err != nil {
		return dto.CartOutput{}, err
	}
	return i.GetCart(ctx), nil
}

func (i *Interactor) ClearCart(ctx context.Context) (dto.CartOutput, error) {
	if err := i.svc.ClearCart(ctx); err != nil {
		return dto.CartOutput{}, err
	}
	return i.GetCart(ctx), nil
}

func (i *Interactor) GetCart(_ context.Context) dto.CartOutput {
	state, summary := i.svc.Snapshot()
	lines := state.Cart
	out := dto.CartOutput{Lines: make([]dto.LineOutput, 0, len(lines)), Items: summary.Items, Total: summary.CartTotal}
	for _, line := range lines {
		out.Lines = append(out.Lines, dto.LineOutput{
			LineID:    line.ID,
			ProductID: line.Product.ID,
			Title:     line.Product.Title,
			Brand:     line.Product.Brand,
			Thumbnail: line.Product.Thumbnail,
			UnitPrice: catalogdomain.DisplayPrice(line.Product, i.svc.Rate()),
			Quantity:  line.Quantity,
			LineTotal: money.Convert(line.Product.Price, line.Quantity, i.svc.Rate()),
		})
	}
	return out
}

func (i *Interactor) Checkout(ctx context.Context) (dto.OutcomeOutput, error) {
	outcome, err := i.svc.Checkout(ctx)
	if err != nil {
		return dto.OutcomeOutput{}, err
	}
	return toOutcomeOutput(outcome), nil
}

func (i *Interactor) BuyNow(ctx context.Context, input dto.ItemInput) (dto.OutcomeOutput, error) {
	product, err := i.product(ctx, input.ProductID)
	if err != nil {
		return dto.OutcomeOutput{}, err
	}
	outcome, err := i.svc.BuyNow(ctx, product, input.Quantity)
	if err != nil {
		return dto.OutcomeOutput{}, err
	}
	return toOutcomeOutput(outcome), nil
}

func (i *Interactor) History(_ context.Context) dto.HistoryOutput {
	state, summary := i.svc.Snapshot()
	return dto.HistoryOutput{
		Records:        toPurchaseOutputs(state.PurchaseHistory),
		TotalPurchases: summary.TotalPurchases,
		TotalSpent:     summary.TotalSpent,
	}
}

func (i *Interactor) ExportReceipts(ctx context.Context) (dto.ExportOutput, error) {
	if i.receipts == nil {
		return dto.ExportOutput{}, fmt.Errorf("receipt export is not configured")
	}
	out := dto.ExportOutput{Paths: []string{}}
	for _, record := range i.svc.History() {
		path, err := i.receipts.Write(ctx, cartout.Receipt{
			Record:       record,
			CurrencyCode: i.currency.Code,
			Symbol:       i.currency.Symbol,
			Rate:         i.svc.Rate(),
		})
		if err != nil {
			return out, fmt.Errorf("export purchase %d: %w", record.ID, err)
		}
		out.Paths = append(out.Paths, path)
	}
	return out, nil
}

func (i *Interactor) product(ctx context.Context, id int64) (catalogdomain.Product, error) {
	out, err := i.catalog.GetProduct(ctx, id)
	if err != nil {
		return catalogdomain.Product{}, fmt.Errorf("load product %d: %w", id, err)
	}
	return fromProductOutput(out), nil
}

func fromProductOutput(p catalogdto.ProductOutput) catalogdomain.Product {
	return catalogdomain.Product{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		Rating:             p.Rating,
		Stock:              p.Stock,
		Brand:              p.Brand,
		Category:           p.Category,
		Thumbnail:          p.Thumbnail,
		Images:             p.Images,
	}
}

func toOutcomeOutput(outcome domain.Outcome) dto.OutcomeOutput {
	return dto.OutcomeOutput{
		Completed: outcome.Completed,
		Reason:    string(outcome.Reason),
		Records:   toPurchaseOutputs(outcome.Records),
	}
}

func toPurchaseOutputs(records []sessiondomain.PurchaseRecord) []dto.PurchaseOutput {
	out := make([]dto.PurchaseOutput, 0, len(records))
	for _, record := range records {
		out = append(out, dto.PurchaseOutput{
			ID:        record.ID,
			ProductID: record.ProductID,
			Title:     record.Product.Title,
			Quantity:  record.Quantity,
			Total:     record.Total,
			Date:      record.Date,
		})
	}
	return out
}
