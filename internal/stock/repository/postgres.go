package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AbsonDev/estoque-max/internal/model"
	"github.com/AbsonDev/estoque-max/internal/stock"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetByID(ctx context.Context, itemID string) (*model.StockItem, error) {
	var item model.StockItem
	err := r.DB.GetContext(ctx, &item, `SELECT * FROM stock_items WHERE id = $1`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, stock.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) GetByProduct(ctx context.Context, pantryID, productID string) (*model.StockItem, error) {
	var item model.StockItem
	err := r.DB.GetContext(ctx, &item, `
        SELECT * FROM stock_items WHERE pantry_id = $1 AND product_id = $2
    `, pantryID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, stock.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) ListActive(ctx context.Context) ([]model.StockItem, error) {
	var items []model.StockItem
	err := r.DB.SelectContext(ctx, &items, `
        SELECT * FROM stock_items WHERE quantity > 0 ORDER BY updated_at DESC
    `)
	return items, err
}

// ConsumeWithRecord serializes concurrent consumes on the same item through a
// guarded UPDATE: the decrement only applies while enough stock remains, so
// quantity can never go negative. Ledger append and decrement commit or roll
// back together.
func (r *PGRepository) ConsumeWithRecord(ctx context.Context, rec *model.ConsumptionRecord) (*model.StockItem, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// 1. Guarded decrement. Zero rows means the item is missing or short.
	var item model.StockItem
	err = tx.GetContext(ctx, &item, `
        UPDATE stock_items
        SET quantity = quantity - $1, updated_at = $2
        WHERE id = $3 AND quantity >= $1
        RETURNING *
    `, rec.Quantity, rec.ConsumedAt, rec.StockItemID)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if checkErr := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM stock_items WHERE id = $1)`, rec.StockItemID); checkErr != nil {
			return nil, checkErr
		}
		if !exists {
			return nil, stock.ErrItemNotFound
		}
		return nil, stock.ErrInsufficientStock
	}
	if err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}

	// 2. Append the ledger record with the post-decrement quantity.
	rec.QuantityAfter = item.Quantity
	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO consumption_records (
            id, stock_item_id, user_id, quantity,
            consumed_at, weekday, hour, quantity_after
        )
        VALUES (
            :id, :stock_item_id, :user_id, :quantity,
            :consumed_at, :weekday, :hour, :quantity_after
        )
    `, rec)
	if err != nil {
		return nil, fmt.Errorf("append consumption record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit consume: %w", err)
	}
	return &item, nil
}

func (r *PGRepository) AddQuantity(ctx context.Context, in *model.StockItem) (*model.StockItem, error) {
	minQty := in.MinQuantity
	if minQty < 1 {
		minQty = 1
	}
	ts := in.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	var item model.StockItem
	err := r.DB.GetContext(ctx, &item, `
        INSERT INTO stock_items (
            id, pantry_id, product_id, quantity, min_quantity,
            expires_at, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
        ON CONFLICT (pantry_id, product_id)
        DO UPDATE SET
            quantity = stock_items.quantity + EXCLUDED.quantity,
            expires_at = COALESCE(EXCLUDED.expires_at, stock_items.expires_at),
            updated_at = EXCLUDED.updated_at
        RETURNING *
    `, in.ID, in.PantryID, in.ProductID, in.Quantity, minQty, in.ExpiresAt, ts)
	if err != nil {
		return nil, fmt.Errorf("upsert stock item: %w", err)
	}
	return &item, nil
}

func (r *PGRepository) RecordsFor(ctx context.Context, itemID string, since time.Time) ([]model.ConsumptionRecord, error) {
	var records []model.ConsumptionRecord
	err := r.DB.SelectContext(ctx, &records, `
        SELECT * FROM consumption_records
        WHERE stock_item_id = $1 AND consumed_at >= $2
        ORDER BY consumed_at ASC
    `, itemID, since)
	return records, err
}

func (r *PGRepository) CountRecords(ctx context.Context, itemID string) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `
        SELECT count(*) FROM consumption_records WHERE stock_item_id = $1
    `, itemID)
	return count, err
}
