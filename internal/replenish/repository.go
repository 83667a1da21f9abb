package replenish

import (
	"context"
	"errors"

	"github.com/AbsonDev/estoque-max/internal/model"
)

var ErrEntryNotFound = errors.New("shopping list entry not found")

type Repository interface {
	// InsertAutomaticIfAbsent creates the unresolved automatic entry for
	// (user, product) unless one already exists. Reports whether a row was
	// inserted. Backed by insert-if-absent semantics so concurrent
	// evaluations cannot produce duplicates.
	InsertAutomaticIfAbsent(ctx context.Context, entry *model.ShoppingListItem) (bool, error)

	// DeleteUnresolvedAutomatic removes the unresolved automatic entry for
	// (user, product) if present. Manual entries are left alone.
	DeleteUnresolvedAutomatic(ctx context.Context, userID, productID string) (bool, error)

	Insert(ctx context.Context, entry *model.ShoppingListItem) error
	GetByID(ctx context.Context, userID, entryID string) (*model.ShoppingListItem, error)
	ListByUser(ctx context.Context, userID string, purchased bool) ([]model.ShoppingListItem, error)
	MarkPurchased(ctx context.Context, entryID string) error
	Delete(ctx context.Context, userID, entryID string) (bool, error)
}
