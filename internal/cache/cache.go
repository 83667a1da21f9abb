package cache

import (
	"context"
	"time"

	"github.com/AbsonDev/estoque-max/internal/model"
)

// Entry is the last-computed forecast for one stock item. The retraining
// scheduler owns this cache; the forecasting engine itself stays stateless.
type Entry struct {
	Forecast      model.Forecast `json:"forecast"`
	DaysRemaining int            `json:"days_remaining"`
	CachedAt      time.Time      `json:"cached_at"`
}

// ForecastStore caches per-item forecast results between retraining cycles.
// Get returns (nil, nil) when no entry exists.
type ForecastStore interface {
	Get(ctx context.Context, itemID string) (*Entry, error)
	Put(ctx context.Context, itemID string, entry Entry) error

	// EvictOlderThan drops entries cached before the cutoff and reports how
	// many were removed.
	EvictOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
