package scanner

import (
	"sync"
	"time"

	"minervini-screener/internal/screener"
)

// resultCache memoizes per-symbol analysis results with a TTL so a
// rescan inside the window skips the fetch and recompute.
type resultCache struct {
	mu    sync.RWMutex
	cache map[string]*cachedResult
	ttl   time.Duration
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		cache: make(map[string]*cachedResult),
		ttl:   ttl,
	}
}

// Get returns the cached result for a symbol if not expired.
func (rc *resultCache) Get(symbol string) *screener.AnalysisResult {
	if rc.ttl <= 0 {
		return nil
	}
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	cached, exists := rc.cache[symbol]
	if !exists || time.Now().After(cached.ExpiresAt) {
		return nil
	}
	return cached.Result
}

// Set stores a result with the cache TTL.
func (rc *resultCache) Set(symbol string, result *screener.AnalysisResult) {
	if rc.ttl <= 0 {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache[symbol] = &cachedResult{
		Result:    result,
		ExpiresAt: time.Now().Add(rc.ttl),
	}
}

// CleanupExpired removes expired entries.
func (rc *resultCache) CleanupExpired() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	now := time.Now()
	for symbol, cached := range rc.cache {
		if now.After(cached.ExpiresAt) {
			delete(rc.cache, symbol)
		}
	}
}
