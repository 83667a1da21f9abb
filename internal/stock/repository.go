package stock

import (
	"context"
	"time"

	"github.com/AbsonDev/estoque-max/internal/model"
)

type Repository interface {
	GetByID(ctx context.Context, itemID string) (*model.StockItem, error)
	GetByProduct(ctx context.Context, pantryID, productID string) (*model.StockItem, error)
	ListActive(ctx context.Context) ([]model.StockItem, error)

	// ConsumeWithRecord decrements the item quantity and appends the ledger
	// record in one transaction. The decrement is guarded: it fails with
	// ErrInsufficientStock when the record quantity exceeds the current
	// quantity, and nothing is written. QuantityAfter is filled in from the
	// post-decrement quantity.
	ConsumeWithRecord(ctx context.Context, rec *model.ConsumptionRecord) (*model.StockItem, error)

	// AddQuantity upserts the (pantry, product) stock item and increments
	// its quantity.
	AddQuantity(ctx context.Context, item *model.StockItem) (*model.StockItem, error)

	// Ledger queries. Records are append-only; there is no update or delete.
	RecordsFor(ctx context.Context, itemID string, since time.Time) ([]model.ConsumptionRecord, error)
	CountRecords(ctx context.Context, itemID string) (int, error)
}
