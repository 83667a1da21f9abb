package replenish

import (
	"context"

	"github.com/AbsonDev/estoque-max/internal/model"
	"github.com/AbsonDev/estoque-max/internal/replenish/dto"
)

type UseCase interface {
	// Evaluate applies the threshold rule to one stock item and reports
	// whether the shopping list changed. Repeated evaluation with unchanged
	// inputs is a no-op. Manual entries are never touched.
	Evaluate(ctx context.Context, item *model.StockItem) (bool, error)

	AddManual(ctx context.Context, input *dto.AddManualInput) (*model.ShoppingListItem, error)

	// MarkPurchased resolves an entry; when a pantry is given the purchased
	// quantity is added back into stock and the item re-evaluated.
	MarkPurchased(ctx context.Context, input *dto.MarkPurchasedInput) error

	ListPending(ctx context.Context, userID string) ([]model.ShoppingListItem, error)
	History(ctx context.Context, userID string) ([]model.ShoppingListItem, error)
	Remove(ctx context.Context, userID, entryID string) error
}
