package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/AbsonDev/estoque-max/internal/model"
	"github.com/AbsonDev/estoque-max/internal/replenish"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// InsertAutomaticIfAbsent relies on the partial unique index over unresolved
// automatic rows: concurrent evaluations race on the index, one wins, the
// rest see zero rows affected.
func (r *PGRepository) InsertAutomaticIfAbsent(ctx context.Context, entry *model.ShoppingListItem) (bool, error) {
	query := `
        INSERT INTO shopping_list_items (
            id, user_id, product_id, manual_description,
            desired_quantity, purchased, source, created_at
        )
        VALUES (
            :id, :user_id, :product_id, :manual_description,
            :desired_quantity, :purchased, :source, :created_at
        )
        ON CONFLICT (user_id, product_id) WHERE source = 'automatic' AND NOT purchased
        DO NOTHING
    `
	res, err := r.DB.NamedExecContext(ctx, query, entry)
	if err != nil {
		return false, fmt.Errorf("insert automatic entry: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *PGRepository) DeleteUnresolvedAutomatic(ctx context.Context, userID, productID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
        DELETE FROM shopping_list_items
        WHERE user_id = $1 AND product_id = $2 AND source = 'automatic' AND NOT purchased
    `, userID, productID)
	if err != nil {
		return false, fmt.Errorf("delete automatic entry: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *PGRepository) Insert(ctx context.Context, entry *model.ShoppingListItem) error {
	query := `
        INSERT INTO shopping_list_items (
            id, user_id, product_id, manual_description,
            desired_quantity, purchased, source, created_at
        )
        VALUES (
            :id, :user_id, :product_id, :manual_description,
            :desired_quantity, :purchased, :source, :created_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, entry)
	return err
}

func (r *PGRepository) GetByID(ctx context.Context, userID, entryID string) (*model.ShoppingListItem, error) {
	var entry model.ShoppingListItem
	err := r.DB.GetContext(ctx, &entry, `
        SELECT * FROM shopping_list_items WHERE id = $1 AND user_id = $2
    `, entryID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, replenish.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *PGRepository) ListByUser(ctx context.Context, userID string, purchased bool) ([]model.ShoppingListItem, error) {
	var entries []model.ShoppingListItem
	err := r.DB.SelectContext(ctx, &entries, `
        SELECT * FROM shopping_list_items
        WHERE user_id = $1 AND purchased = $2
        ORDER BY created_at ASC
    `, userID, purchased)
	return entries, err
}

func (r *PGRepository) MarkPurchased(ctx context.Context, entryID string) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE shopping_list_items SET purchased = TRUE WHERE id = $1
    `, entryID)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, userID, entryID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
        DELETE FROM shopping_list_items WHERE id = $1 AND user_id = $2
    `, entryID, userID)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
