package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AbsonDev/estoque-max/internal/identity"
	"github.com/AbsonDev/estoque-max/internal/model"
	"github.com/AbsonDev/estoque-max/internal/replenish"
	"github.com/AbsonDev/estoque-max/internal/replenish/dto"
	"github.com/AbsonDev/estoque-max/internal/stock"
	"github.com/AbsonDev/estoque-max/pkg/logger"
)

// DefaultRestockMultiplier sizes automatic entries: desired quantity is the
// item's minimum threshold times this factor, floored at one unit.
const DefaultRestockMultiplier = 2

type replenishUseCase struct {
	repo       replenish.Repository
	stockRepo  stock.Repository
	identity   identity.Resolver
	logger     logger.Logger
	now        func() time.Time
	multiplier int
}

func NewReplenishUseCase(repo replenish.Repository, stockRepo stock.Repository, resolver identity.Resolver, log logger.Logger, now func() time.Time, restockMultiplier int) replenish.UseCase {
	if now == nil {
		now = time.Now
	}
	if restockMultiplier < 1 {
		restockMultiplier = DefaultRestockMultiplier
	}
	return &replenishUseCase{
		repo:       repo,
		stockRepo:  stockRepo,
		identity:   resolver,
		logger:     log,
		now:        now,
		multiplier: restockMultiplier,
	}
}

// Evaluate applies the threshold rule. Entries are attributed to the pantry
// owner so all members share one list. The rule is symmetric: crossing down
// creates exactly one automatic entry, recovering removes exactly that entry.
func (uc *replenishUseCase) Evaluate(ctx context.Context, item *model.StockItem) (bool, error) {
	owner, err := uc.identity.OwnerOf(ctx, item.PantryID)
	if err != nil {
		if errors.Is(err, identity.ErrOwnerNotFound) {
			// Broken invariant elsewhere; surface it, mutate nothing.
			uc.logger.Error("pantry has no owner, skipping replenishment",
				zap.String("pantry_id", item.PantryID),
				zap.String("stock_item_id", item.ID),
			)
			return false, fmt.Errorf("evaluate stock item %s: %w", item.ID, err)
		}
		return false, fmt.Errorf("resolve pantry owner: %w", err)
	}

	if item.BelowThreshold() {
		desired := item.MinQuantity * uc.multiplier
		if desired < 1 {
			desired = 1
		}

		productID := item.ProductID
		entry := &model.ShoppingListItem{
			ID:              uuid.New().String(),
			UserID:          owner,
			ProductID:       &productID,
			DesiredQuantity: desired,
			Source:          model.SourceAutomatic,
			CreatedAt:       uc.now().UTC(),
		}

		inserted, err := uc.repo.InsertAutomaticIfAbsent(ctx, entry)
		if err != nil {
			return false, fmt.Errorf("insert automatic entry: %w", err)
		}
		if inserted {
			uc.logger.Info("added item to shopping list",
				zap.String("product_id", item.ProductID),
				zap.String("owner_id", owner),
				zap.Int("desired_quantity", desired),
			)
		}
		return inserted, nil
	}

	removed, err := uc.repo.DeleteUnresolvedAutomatic(ctx, owner, item.ProductID)
	if err != nil {
		return false, fmt.Errorf("remove automatic entry: %w", err)
	}
	if removed {
		uc.logger.Info("stock recovered, removed item from shopping list",
			zap.String("product_id", item.ProductID),
			zap.String("owner_id", owner),
		)
	}
	return removed, nil
}

func (uc *replenishUseCase) AddManual(ctx context.Context, input *dto.AddManualInput) (*model.ShoppingListItem, error) {
	if input.ProductID == nil && (input.Description == nil || *input.Description == "") {
		return nil, errors.New("manual entry needs a product or a description")
	}

	desired := input.DesiredQuantity
	if desired < 1 {
		desired = 1
	}

	entry := &model.ShoppingListItem{
		ID:                uuid.New().String(),
		UserID:            input.UserID,
		ProductID:         input.ProductID,
		ManualDescription: input.Description,
		DesiredQuantity:   desired,
		Source:            model.SourceManual,
		CreatedAt:         uc.now().UTC(),
	}

	if err := uc.repo.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("insert manual entry: %w", err)
	}
	return entry, nil
}

func (uc *replenishUseCase) MarkPurchased(ctx context.Context, input *dto.MarkPurchasedInput) error {
	entry, err := uc.repo.GetByID(ctx, input.UserID, input.EntryID)
	if err != nil {
		return err
	}

	if err := uc.repo.MarkPurchased(ctx, entry.ID); err != nil {
		return fmt.Errorf("mark entry purchased: %w", err)
	}

	// Optionally land the purchase back in a pantry.
	if input.PantryID == nil || entry.ProductID == nil {
		return nil
	}

	qty := input.PurchasedQuantity
	if qty <= 0 {
		qty = entry.DesiredQuantity
	}

	item, err := uc.stockRepo.AddQuantity(ctx, &model.StockItem{
		ID:        uuid.New().String(),
		PantryID:  *input.PantryID,
		ProductID: *entry.ProductID,
		Quantity:  qty,
		ExpiresAt: input.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("restock after purchase: %w", err)
	}

	// Stock recovered; the automatic entry (if any) drops off the list.
	if _, err := uc.Evaluate(ctx, item); err != nil {
		uc.logger.Warn("post-restock evaluation failed", zap.Error(err))
	}
	return nil
}

func (uc *replenishUseCase) ListPending(ctx context.Context, userID string) ([]model.ShoppingListItem, error) {
	return uc.repo.ListByUser(ctx, userID, false)
}

func (uc *replenishUseCase) History(ctx context.Context, userID string) ([]model.ShoppingListItem, error) {
	return uc.repo.ListByUser(ctx, userID, true)
}

func (uc *replenishUseCase) Remove(ctx context.Context, userID, entryID string) error {
	deleted, err := uc.repo.Delete(ctx, userID, entryID)
	if err != nil {
		return err
	}
	if !deleted {
		return replenish.ErrEntryNotFound
	}
	return nil
}
