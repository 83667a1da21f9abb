package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AbsonDev/estoque-max/internal/cache"
	"github.com/AbsonDev/estoque-max/internal/forecast"
	"github.com/AbsonDev/estoque-max/internal/metrics"
	"github.com/AbsonDev/estoque-max/internal/model"
	"github.com/AbsonDev/estoque-max/internal/notifier"
	"github.com/AbsonDev/estoque-max/internal/replenish"
	"github.com/AbsonDev/estoque-max/internal/stock"
	"github.com/AbsonDev/estoque-max/pkg/logger"
)

// ErrCycleInProgress guards against overlapping cycles: a new one never
// starts while the previous one is still running.
var ErrCycleInProgress = errors.New("retraining cycle already in progress")

type State int32

const (
	StateIdle State = iota
	StateRunning
	StateBackoff
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateBackoff:
		return "backoff"
	default:
		return "idle"
	}
}

// Locker serializes retraining per stock item across instances. Satisfied by
// pkg/cache.RedisClient; may be nil for single-instance deployments, where
// the sequential cycle already serializes items.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type Config struct {
	Interval      time.Duration // normal cadence between cycles
	Backoff       time.Duration // retry delay after a failed cycle
	MinRecords    int           // items with fewer ledger records are skipped
	HistoryWindow time.Duration // ledger slice pulled per item
	CacheMaxAge   time.Duration // forecast cache retention
	LockTTL       time.Duration
	ItemPause     time.Duration // breather between items
}

func DefaultConfig() Config {
	return Config{
		Interval:      6 * time.Hour,
		Backoff:       30 * time.Minute,
		MinRecords:    5,
		HistoryWindow: 6 * 30 * 24 * time.Hour,
		CacheMaxAge:   7 * 24 * time.Hour,
		LockTTL:       2 * time.Minute,
		ItemPause:     100 * time.Millisecond,
	}
}

// Retrainer periodically re-derives forecasts for every active stock item,
// re-runs the replenishment rule and notifies pantries whose depletion
// estimates moved.
type Retrainer struct {
	cfg       Config
	stock     stock.UseCase
	replenish replenish.UseCase
	engine    *forecast.Engine
	store     cache.ForecastStore
	locker    Locker
	notifier  notifier.Notifier
	metrics   *metrics.Retraining
	logger    logger.Logger
	now       func() time.Time

	running atomic.Bool
	state   atomic.Int32
}

func NewRetrainer(
	cfg Config,
	stockUC stock.UseCase,
	replenishUC replenish.UseCase,
	engine *forecast.Engine,
	store cache.ForecastStore,
	locker Locker,
	notif notifier.Notifier,
	m *metrics.Retraining,
	log logger.Logger,
	now func() time.Time,
) *Retrainer {
	if now == nil {
		now = time.Now
	}
	return &Retrainer{
		cfg:       cfg,
		stock:     stockUC,
		replenish: replenishUC,
		engine:    engine,
		store:     store,
		locker:    locker,
		notifier:  notif,
		metrics:   m,
		logger:    log,
		now:       now,
	}
}

func (r *Retrainer) State() State {
	return State(r.state.Load())
}

func (r *Retrainer) setState(s State) {
	r.state.Store(int32(s))
	if r.metrics != nil {
		r.metrics.State.Set(float64(s))
	}
}

// Run drives the cycle loop until ctx is cancelled. A failed cycle switches
// to the shorter backoff delay before returning to the normal cadence.
func (r *Retrainer) Run(ctx context.Context) {
	r.logger.Info("retraining scheduler started",
		zap.Duration("interval", r.cfg.Interval),
		zap.Duration("backoff", r.cfg.Backoff),
	)

	for {
		wait := r.cfg.Interval

		err := r.RunCycle(ctx)
		switch {
		case ctx.Err() != nil:
			r.setState(StateIdle)
			r.logger.Info("retraining scheduler stopped")
			return
		case errors.Is(err, ErrCycleInProgress):
			r.logger.Warn("skipping cycle, previous one still running")
		case err != nil:
			r.logger.Error("retraining cycle failed", zap.Error(err))
			if r.metrics != nil {
				r.metrics.CycleFailures.Inc()
			}
			r.setState(StateBackoff)
			wait = r.cfg.Backoff
		default:
			r.setState(StateIdle)
		}

		select {
		case <-ctx.Done():
			r.setState(StateIdle)
			r.logger.Info("retraining scheduler stopped")
			return
		case <-time.After(wait):
		}
	}
}

// RunCycle executes one retraining pass. Per-item failures are logged and
// skipped; only cycle-level failures (storage unreachable) return an error.
func (r *Retrainer) RunCycle(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrCycleInProgress
	}
	defer r.running.Store(false)

	r.setState(StateRunning)
	start := r.now()

	items, err := r.stock.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active stock items: %w", err)
	}

	r.logger.Info("retraining cycle started", zap.Int("items", len(items)))

	processed, succeeded := 0, 0
	updates := make(map[string][]notifier.ItemForecast)

	for i := range items {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		item := &items[i]
		processed++

		update, ok := r.processItem(ctx, item)
		if !ok {
			continue
		}
		succeeded++
		if r.metrics != nil {
			r.metrics.ItemsProcessed.Inc()
		}
		if update != nil {
			updates[item.PantryID] = append(updates[item.PantryID], *update)
		}

		if r.cfg.ItemPause > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.cfg.ItemPause):
			}
		}
	}

	// One notification per pantry, not per item.
	for pantryID, batch := range updates {
		r.notifier.Notify(ctx, pantryID, notifier.ForecastsUpdated{
			PantryID:  pantryID,
			Items:     batch,
			UpdatedAt: r.now().UTC(),
		})
	}

	if evicted, err := r.store.EvictOlderThan(ctx, r.now().Add(-r.cfg.CacheMaxAge)); err != nil {
		r.logger.Warn("forecast cache eviction failed", zap.Error(err))
	} else if evicted > 0 {
		r.logger.Debug("evicted stale forecasts", zap.Int("count", evicted))
	}

	if r.metrics != nil {
		r.metrics.CyclesTotal.Inc()
		r.metrics.CycleDuration.Observe(r.now().Sub(start).Seconds())
	}
	r.logger.Info("retraining cycle finished",
		zap.Int("processed", processed),
		zap.Int("succeeded", succeeded),
		zap.Int("pantries_notified", len(updates)),
		zap.Duration("took", r.now().Sub(start)),
	)
	return nil
}

// processItem retrains one item. Returns the notification payload when the
// depletion estimate changed (or had no previous value), nil when unchanged
// or skipped; ok=false marks a per-item failure.
func (r *Retrainer) processItem(ctx context.Context, item *model.StockItem) (*notifier.ItemForecast, bool) {
	count, err := r.stock.HistoryCount(ctx, item.ID)
	if err != nil {
		r.itemFailure(item, "count ledger records", err)
		return nil, false
	}
	if count < r.cfg.MinRecords {
		return nil, true
	}

	if r.locker != nil {
		lockKey := "lock:retrain:" + item.ID
		lockValue := uuid.New().String()
		acquired, err := r.locker.AcquireLock(ctx, lockKey, lockValue, r.cfg.LockTTL)
		if err != nil {
			r.itemFailure(item, "acquire retrain lock", err)
			return nil, false
		}
		if !acquired {
			// Another instance is retraining this item.
			return nil, true
		}
		defer func() {
			if err := r.locker.ReleaseLock(ctx, lockKey, lockValue); err != nil {
				r.logger.Warn("failed to release retrain lock", zap.String("key", lockKey), zap.Error(err))
			}
		}()
	}

	now := r.now()
	records, err := r.stock.History(ctx, item.ID, now.Add(-r.cfg.HistoryWindow))
	if err != nil {
		r.itemFailure(item, "load ledger slice", err)
		return nil, false
	}

	fc := r.engine.Forecast(records, now)
	days := forecast.DaysRemaining(item.Quantity, fc)

	prev, err := r.store.Get(ctx, item.ID)
	if err != nil {
		r.itemFailure(item, "read forecast cache", err)
		return nil, false
	}
	changed := prev == nil || prev.DaysRemaining != days

	if err := r.store.Put(ctx, item.ID, cache.Entry{
		Forecast:      fc,
		DaysRemaining: days,
		CachedAt:      now,
	}); err != nil {
		r.itemFailure(item, "write forecast cache", err)
		return nil, false
	}

	listChanged, err := r.replenish.Evaluate(ctx, item)
	if err != nil {
		// Broken ownership data or storage trouble; the forecast itself
		// is already cached, so keep the item's update.
		r.logger.Warn("replenishment evaluation failed during retraining",
			zap.String("stock_item_id", item.ID),
			zap.Error(err),
		)
	}
	if listChanged && r.metrics != nil {
		r.metrics.ListMutations.Inc()
	}

	if !changed && !listChanged {
		return nil, true
	}
	return &notifier.ItemForecast{
		StockItemID:   item.ID,
		DaysRemaining: days,
		ListChanged:   listChanged,
	}, true
}

func (r *Retrainer) itemFailure(item *model.StockItem, op string, err error) {
	if r.metrics != nil {
		r.metrics.ItemFailures.Inc()
	}
	r.logger.Warn("retraining item failed, continuing with next",
		zap.String("stock_item_id", item.ID),
		zap.String("op", op),
		zap.Error(err),
	)
}
