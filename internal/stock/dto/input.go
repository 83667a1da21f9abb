package dto

import "time"

type ConsumeInput struct {
	StockItemID string
	UserID      string
	Quantity    int
}

type AddStockInput struct {
	PantryID    string
	ProductID   string
	UserID      string
	Quantity    int
	MinQuantity int // 0 means keep existing / default
	ExpiresAt   *time.Time
}
