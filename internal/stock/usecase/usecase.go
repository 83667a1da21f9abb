package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AbsonDev/estoque-max/internal/model"
	"github.com/AbsonDev/estoque-max/internal/notifier"
	"github.com/AbsonDev/estoque-max/internal/replenish"
	"github.com/AbsonDev/estoque-max/internal/stock"
	"github.com/AbsonDev/estoque-max/internal/stock/dto"
	"github.com/AbsonDev/estoque-max/pkg/logger"
)

type stockUseCase struct {
	repo      stock.Repository
	replenish replenish.UseCase
	notifier  notifier.Notifier
	logger    logger.Logger
	now       func() time.Time
}

func NewStockUseCase(repo stock.Repository, rep replenish.UseCase, notif notifier.Notifier, log logger.Logger, now func() time.Time) stock.UseCase {
	if now == nil {
		now = time.Now
	}
	return &stockUseCase{
		repo:      repo,
		replenish: rep,
		notifier:  notif,
		logger:    log,
		now:       now,
	}
}

func (uc *stockUseCase) Consume(ctx context.Context, input *dto.ConsumeInput) (*model.ConsumptionRecord, error) {
	if input.Quantity <= 0 {
		return nil, stock.ErrInvalidQuantity
	}

	consumedAt := uc.now().UTC()
	rec := &model.ConsumptionRecord{
		ID:          uuid.New().String(),
		StockItemID: input.StockItemID,
		UserID:      input.UserID,
		Quantity:    input.Quantity,
		ConsumedAt:  consumedAt,
		// Derived at write time so the forecaster can mine weekly and
		// daily patterns later without re-deriving them.
		Weekday: int(consumedAt.Weekday()),
		Hour:    consumedAt.Hour(),
	}

	item, err := uc.repo.ConsumeWithRecord(ctx, rec)
	if err != nil {
		return nil, err
	}

	uc.evaluate(ctx, item)
	return rec, nil
}

func (uc *stockUseCase) AddStock(ctx context.Context, input *dto.AddStockInput) (*model.StockItem, error) {
	if input.Quantity <= 0 {
		return nil, stock.ErrInvalidQuantity
	}

	minQty := input.MinQuantity
	if minQty < 0 {
		minQty = 0
	}

	now := uc.now().UTC()
	item, err := uc.repo.AddQuantity(ctx, &model.StockItem{
		ID:          uuid.New().String(),
		PantryID:    input.PantryID,
		ProductID:   input.ProductID,
		Quantity:    input.Quantity,
		MinQuantity: minQty,
		ExpiresAt:   input.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("add stock: %w", err)
	}

	uc.evaluate(ctx, item)
	return item, nil
}

// evaluate runs the replenishment rule after a quantity mutation and emits a
// change notification only when the list actually changed. The mutation has
// already committed, so evaluation failures are surfaced through the log,
// not returned to the caller.
func (uc *stockUseCase) evaluate(ctx context.Context, item *model.StockItem) {
	changed, err := uc.replenish.Evaluate(ctx, item)
	if err != nil {
		uc.logger.Error("replenishment evaluation failed",
			zap.String("stock_item_id", item.ID),
			zap.Error(err),
		)
		return
	}
	if !changed {
		return
	}

	uc.notifier.Notify(ctx, item.PantryID, notifier.ShoppingListChanged{
		PantryID:    item.PantryID,
		StockItemID: item.ID,
		ProductID:   item.ProductID,
		ChangedAt:   uc.now().UTC(),
	})
}

func (uc *stockUseCase) GetItem(ctx context.Context, itemID string) (*model.StockItem, error) {
	return uc.repo.GetByID(ctx, itemID)
}

func (uc *stockUseCase) ListActive(ctx context.Context) ([]model.StockItem, error) {
	return uc.repo.ListActive(ctx)
}

func (uc *stockUseCase) History(ctx context.Context, itemID string, since time.Time) ([]model.ConsumptionRecord, error) {
	return uc.repo.RecordsFor(ctx, itemID, since)
}

func (uc *stockUseCase) HistoryCount(ctx context.Context, itemID string) (int, error) {
	return uc.repo.CountRecords(ctx, itemID)
}
