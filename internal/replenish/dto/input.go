package dto

import "time"

type AddManualInput struct {
	UserID          string
	ProductID       *string
	Description     *string
	DesiredQuantity int
}

type MarkPurchasedInput struct {
	UserID  string
	EntryID string

	// Optional restock target. When PantryID is set and the entry references
	// a product, the purchased quantity lands back in that pantry's stock.
	PantryID          *string
	PurchasedQuantity int
	ExpiresAt         *time.Time
}
