package stock

import (
	"context"
	"time"

	"github.com/AbsonDev/estoque-max/internal/model"
	"github.com/AbsonDev/estoque-max/internal/stock/dto"
)

type UseCase interface {
	// Consume appends a ledger record and decrements the item quantity as
	// one transaction, then re-evaluates the replenishment list.
	Consume(ctx context.Context, input *dto.ConsumeInput) (*model.ConsumptionRecord, error)

	// AddStock increments (or creates) a stock item, then re-evaluates the
	// replenishment list so recovered items drop off it.
	AddStock(ctx context.Context, input *dto.AddStockInput) (*model.StockItem, error)

	GetItem(ctx context.Context, itemID string) (*model.StockItem, error)
	ListActive(ctx context.Context) ([]model.StockItem, error)

	// History returns the item's ledger slice since the given time,
	// ascending by timestamp.
	History(ctx context.Context, itemID string, since time.Time) ([]model.ConsumptionRecord, error)
	HistoryCount(ctx context.Context, itemID string) (int, error)
}
