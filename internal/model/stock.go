package model

import "time"

// StockItem is one tracked quantity of a product inside one pantry.
type StockItem struct {
	ID          string     `db:"id"`
	PantryID    string     `db:"pantry_id"`
	ProductID   string     `db:"product_id"`
	Quantity    int        `db:"quantity"`
	MinQuantity int        `db:"min_quantity"` // replenishment threshold, defaults to 1
	ExpiresAt   *time.Time `db:"expires_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// BelowThreshold reports whether the item should be on the shopping list.
func (s *StockItem) BelowThreshold() bool {
	return s.Quantity <= s.MinQuantity
}

type Pantry struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	OwnerID   string    `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
}
