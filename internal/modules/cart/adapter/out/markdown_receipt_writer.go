package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cartout "storefront/internal/modules/cart/port/out"
	sessiondomain "storefront/internal/modules/session/domain"
	"storefront/internal/platform/markdown"
	"storefront/internal/platform/money"
	"storefront/internal/platform/slug"
)

const ReceiptSchemaVersion = 1

// MarkdownReceiptWriter writes one note per purchase under
// <dir>/YYYY/MM/DD/<id>-<title>.md. Rewriting a receipt is idempotent.
type MarkdownReceiptWriter struct {
	dir string
}

func NewMarkdownReceiptWriter(dir string) cartout.ReceiptWriter {
	return &MarkdownReceiptWriter{dir: dir}
}

func (w *MarkdownReceiptWriter) Write(_ context.Context, receipt cartout.Receipt) (string, error) {
	record := receipt.Record
	dir := filepath.Join(w.dir, "undated")
	if date, err := time.Parse(sessiondomain.PurchaseDateLayout, record.Date); err == nil {
		dir = filepath.Join(w.dir, date.Format("2006"), date.Format("01"), date.Format("02"))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipt dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%d-%s.md", record.ID, slug.Make(record.Product.Title)))

	unit := record.Product.Price * receipt.Rate
	doc := markdown.Document{
		Meta: map[string]any{
			"schema_version": ReceiptSchemaVersion,
			"id":             record.ID,
			"product_id":     record.ProductID,
			"title":          record.Product.Title,
			"brand":          record.Product.Brand,
			"quantity":       record.Quantity,
			"unit_price":     unit,
			"total":          record.Total,
			"currency":       receipt.CurrencyCode,
			"date":           record.Date,
		},
		Body: fmt.Sprintf("# Receipt %d\n\n- Product: %s\n- Quantity: %d\n- Unit price: %s\n- Total: %s\n",
			record.ID,
			record.Product.Title,
			record.Quantity,
			money.Format(receipt.Symbol, unit),
			money.Format(receipt.Symbol, record.Total)),
	}
	rendered, err := doc.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}
