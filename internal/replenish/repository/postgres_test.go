package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/AbsonDev/estoque-max/internal/model"
	"github.com/AbsonDev/estoque-max/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set, skipping integration test")
	}

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("set dialect: %v", err)
	}
	if err := goose.Up(db.DB, "."); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func automaticEntry(userID, productID string) *model.ShoppingListItem {
	return &model.ShoppingListItem{
		ID:              uuid.New().String(),
		UserID:          userID,
		ProductID:       &productID,
		DesiredQuantity: 4,
		Source:          model.SourceAutomatic,
		CreatedAt:       time.Now().UTC(),
	}
}

func cleanupUser(t *testing.T, db *sqlx.DB, userID string) {
	t.Helper()
	t.Cleanup(func() {
		db.Exec(`DELETE FROM shopping_list_items WHERE user_id = $1`, userID)
	})
}

func TestPGRepository_InsertAutomaticIfAbsent(t *testing.T) {
	db := testDB(t)
	repo := NewPGRepository(db)
	ctx := context.Background()

	userID := uuid.New().String()
	productID := uuid.New().String()
	cleanupUser(t, db, userID)

	inserted, err := repo.InsertAutomaticIfAbsent(ctx, automaticEntry(userID, productID))
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if !inserted {
		t.Fatal("expected the first insert to land")
	}

	// The partial unique index absorbs the duplicate.
	inserted, err = repo.InsertAutomaticIfAbsent(ctx, automaticEntry(userID, productID))
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if inserted {
		t.Error("expected the duplicate to be a no-op")
	}

	pending, err := repo.ListByUser(ctx, userID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("expected exactly one unresolved entry, got %d", len(pending))
	}
}

func TestPGRepository_PurchasedEntryDoesNotBlockReinsert(t *testing.T) {
	db := testDB(t)
	repo := NewPGRepository(db)
	ctx := context.Background()

	userID := uuid.New().String()
	productID := uuid.New().String()
	cleanupUser(t, db, userID)

	first := automaticEntry(userID, productID)
	if _, err := repo.InsertAutomaticIfAbsent(ctx, first); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.MarkPurchased(ctx, first.ID); err != nil {
		t.Fatalf("mark purchased: %v", err)
	}

	// A resolved entry no longer occupies the index slot, so the product
	// can legitimately come back onto the list.
	inserted, err := repo.InsertAutomaticIfAbsent(ctx, automaticEntry(userID, productID))
	if err != nil {
		t.Fatalf("reinsert: %v", err)
	}
	if !inserted {
		t.Error("expected a fresh entry after the previous one was purchased")
	}
}

func TestPGRepository_DeleteUnresolvedAutomaticSparesManual(t *testing.T) {
	db := testDB(t)
	repo := NewPGRepository(db)
	ctx := context.Background()

	userID := uuid.New().String()
	productID := uuid.New().String()
	cleanupUser(t, db, userID)

	manual := &model.ShoppingListItem{
		ID:              uuid.New().String(),
		UserID:          userID,
		ProductID:       &productID,
		DesiredQuantity: 2,
		Source:          model.SourceManual,
		CreatedAt:       time.Now().UTC(),
	}
	if err := repo.Insert(ctx, manual); err != nil {
		t.Fatalf("insert manual: %v", err)
	}
	if _, err := repo.InsertAutomaticIfAbsent(ctx, automaticEntry(userID, productID)); err != nil {
		t.Fatalf("insert automatic: %v", err)
	}

	removed, err := repo.DeleteUnresolvedAutomatic(ctx, userID, productID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !removed {
		t.Fatal("expected the automatic entry to be removed")
	}

	pending, err := repo.ListByUser(ctx, userID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 || pending[0].Source != model.SourceManual {
		t.Errorf("expected only the manual entry to survive, got %+v", pending)
	}
}
