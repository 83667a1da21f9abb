package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/AbsonDev/estoque-max/internal/identity"
)

// PGResolver resolves pantry ownership from the pantries tables. Access
// checks live with the caller; this only answers "who owns this pantry".
type PGResolver struct {
	DB *sqlx.DB
}

func NewPGResolver(db *sqlx.DB) *PGResolver {
	return &PGResolver{DB: db}
}

func (r *PGResolver) OwnerOf(ctx context.Context, pantryID string) (string, error) {
	var ownerID string
	err := r.DB.GetContext(ctx, &ownerID, `
        SELECT owner_id FROM pantries WHERE id = $1
    `, pantryID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", identity.ErrOwnerNotFound
	}
	if err != nil {
		return "", err
	}
	if ownerID == "" {
		return "", identity.ErrOwnerNotFound
	}
	return ownerID, nil
}

func (r *PGResolver) MembersOf(ctx context.Context, pantryID string) ([]string, error) {
	var members []string
	err := r.DB.SelectContext(ctx, &members, `
        SELECT user_id FROM pantry_members WHERE pantry_id = $1 ORDER BY joined_at ASC
    `, pantryID)
	return members, err
}
