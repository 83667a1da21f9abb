package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgcache "github.com/AbsonDev/estoque-max/pkg/cache"
)

const forecastKeyPrefix = "forecast:"

// RedisStore shares the forecast cache between instances. Entries carry a TTL
// equal to the retention window, so redis expires stale entries on its own
// and EvictOlderThan has nothing left to do.
type RedisStore struct {
	client *pkgcache.RedisClient
	ttl    time.Duration
}

func NewRedisStore(client *pkgcache.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, itemID string) (*Entry, error) {
	data, err := s.client.Get(ctx, forecastKeyPrefix+itemID)
	if errors.Is(err, pkgcache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode cached forecast: %w", err)
	}
	return &entry, nil
}

func (s *RedisStore) Put(ctx context.Context, itemID string, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode forecast: %w", err)
	}
	return s.client.Set(ctx, forecastKeyPrefix+itemID, data, s.ttl)
}

func (s *RedisStore) EvictOlderThan(context.Context, time.Time) (int, error) {
	// TTL-based expiry covers retention.
	return 0, nil
}
