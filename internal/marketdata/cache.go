package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache key layout
const (
	historyKey   = "history:%s:%s" // symbol, range
	benchmarkKey = "benchmark:%s"  // range
)

// CachedProvider wraps a HistoryProvider with a Redis read-through cache.
// When Redis is unavailable every call falls straight through to the
// underlying provider; the cache is never required for correctness.
type CachedProvider struct {
	provider HistoryProvider
	client   *redis.Client
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewCachedProvider creates a read-through cache around provider. A nil
// redis client disables caching entirely.
func NewCachedProvider(provider HistoryProvider, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CachedProvider{
		provider: provider,
		client:   client,
		ttl:      ttl,
		logger:   logger.With().Str("component", "history_cache").Logger(),
	}
}

func (cp *CachedProvider) FetchHistory(ctx context.Context, symbol, rng string) (Series, error) {
	key := fmt.Sprintf(historyKey, symbol, rng)
	if s, ok := cp.get(ctx, key); ok {
		return s, nil
	}
	s, err := cp.provider.FetchHistory(ctx, symbol, rng)
	if err != nil {
		return nil, err
	}
	cp.set(ctx, key, s)
	return s, nil
}

func (cp *CachedProvider) FetchBenchmarkHistory(ctx context.Context, rng string) (Series, error) {
	key := fmt.Sprintf(benchmarkKey, rng)
	if s, ok := cp.get(ctx, key); ok {
		return s, nil
	}
	s, err := cp.provider.FetchBenchmarkHistory(ctx, rng)
	if err != nil {
		return nil, err
	}
	cp.set(ctx, key, s)
	return s, nil
}

func (cp *CachedProvider) get(ctx context.Context, key string) (Series, bool) {
	if cp.client == nil {
		return nil, false
	}
	data, err := cp.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			cp.logger.Debug().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil, false
	}
	var s Series
	if err := json.Unmarshal(data, &s); err != nil {
		cp.logger.Debug().Err(err).Str("key", key).Msg("cache entry corrupt")
		return nil, false
	}
	return s, true
}

func (cp *CachedProvider) set(ctx context.Context, key string, s Series) {
	if cp.client == nil || len(s) == 0 {
		return
	}
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := cp.client.Set(ctx, key, data, cp.ttl).Err(); err != nil {
		cp.logger.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// NewRedisClient connects to Redis and verifies connectivity. Returns nil
// (caching disabled) when the connection cannot be established.
func NewRedisClient(addr, password string, db int, logger zerolog.Logger) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", addr).Msg("redis unavailable, history caching disabled")
		return nil
	}
	return client
}
