package model

import "time"

// ShoppingListSource tags how an entry got onto the list.
type ShoppingListSource string

const (
	SourceManual    ShoppingListSource = "manual"
	SourceAutomatic ShoppingListSource = "automatic"
)

// ShoppingListItem is one pending-or-resolved suggestion to buy a product.
// ProductID is nil for free-text manual entries. At most one unresolved
// automatic entry may exist per (user, product); the replenishment engine
// enforces this, the storage layer only provides insert-if-absent.
type ShoppingListItem struct {
	ID                string             `db:"id"`
	UserID            string             `db:"user_id"`
	ProductID         *string            `db:"product_id"`
	ManualDescription *string            `db:"manual_description"`
	DesiredQuantity   int                `db:"desired_quantity"`
	Purchased         bool               `db:"purchased"`
	Source            ShoppingListSource `db:"source"`
	CreatedAt         time.Time          `db:"created_at"`
}
