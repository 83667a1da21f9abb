package stock

import "errors"

var (
	// ErrInvalidQuantity rejects non-positive consumption or restock amounts
	// at the boundary; nothing is persisted.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInsufficientStock rejects a consumption that would drive the item
	// quantity negative. The transaction rolls back, no partial decrement.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrItemNotFound is returned when the stock item does not exist.
	ErrItemNotFound = errors.New("stock item not found")
)
