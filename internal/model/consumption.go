package model

import "time"

// ConsumptionRecord is one immutable observation of quantity leaving a
// StockItem. Records are append-only; nothing in the service updates or
// deletes them.
type ConsumptionRecord struct {
	ID            string    `db:"id"`
	StockItemID   string    `db:"stock_item_id"`
	UserID        string    `db:"user_id"`
	Quantity      int       `db:"quantity"`
	ConsumedAt    time.Time `db:"consumed_at"`
	Weekday       int       `db:"weekday"` // 0=Sunday .. 6=Saturday, derived at write time
	Hour          int       `db:"hour"`    // 0-23, derived at write time
	QuantityAfter int       `db:"quantity_after"`
}
