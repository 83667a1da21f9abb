package notifier

import (
	"context"
	"time"
)

// Notifier fans out change events to connected clients. Delivery is
// fire-and-forget: the core does not depend on ordering or acknowledgment.
type Notifier interface {
	Notify(ctx context.Context, pantryID string, payload any)
}

// ShoppingListChanged is emitted when the replenishment engine mutated the
// pantry's shopping list on the consumption write path.
type ShoppingListChanged struct {
	PantryID    string    `json:"pantry_id"`
	StockItemID string    `json:"stock_item_id"`
	ProductID   string    `json:"product_id"`
	ChangedAt   time.Time `json:"changed_at"`
}

// ForecastsUpdated batches the retraining results for one pantry. One message
// per pantry per cycle keeps fan-out volume down.
type ForecastsUpdated struct {
	PantryID  string         `json:"pantry_id"`
	Items     []ItemForecast `json:"items"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type ItemForecast struct {
	StockItemID   string `json:"stock_item_id"`
	DaysRemaining int    `json:"days_remaining"` // -1 means not enough history yet
	ListChanged   bool   `json:"list_changed"`
}
