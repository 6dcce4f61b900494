// Package scanner fans the analysis pipeline out over a symbol universe
// with a bounded worker pool. Symbols fail independently: a fetch or
// computation problem skips that symbol and never aborts the batch.
package scanner

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"minervini-screener/internal/marketdata"
	"minervini-screener/internal/screener"
)

// WatchlistSource supplies symbols to scan ahead of the configured
// defaults. A nil source means config symbols only.
type WatchlistSource interface {
	Symbols(ctx context.Context) ([]string, error)
}

// Scanner orchestrates batch screening across symbols.
type Scanner struct {
	provider  marketdata.HistoryProvider
	analyzer  *screener.Analyzer
	watchlist WatchlistSource
	cache     *resultCache
	config    Config
	logger    zerolog.Logger

	notify func(*ScanResult)

	stopChan   chan struct{}
	wg         sync.WaitGroup
	mu         sync.RWMutex
	lastResult *ScanResult
}

// New creates a scanner. watchlist may be nil.
func New(provider marketdata.HistoryProvider, analyzer *screener.Analyzer, watchlist WatchlistSource, config Config, logger zerolog.Logger) *Scanner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 4
	}
	if config.MaxSymbols <= 0 {
		config.MaxSymbols = 50
	}
	return &Scanner{
		provider:  provider,
		analyzer:  analyzer,
		watchlist: watchlist,
		cache:     newResultCache(config.CacheTTL),
		config:    config,
		logger:    logger.With().Str("component", "scanner").Logger(),
		stopChan:  make(chan struct{}),
	}
}

// SetNotifier registers a callback invoked with each completed scan
// (used to stream results over the WebSocket hub). Must be called
// before Start.
func (sc *Scanner) SetNotifier(fn func(*ScanResult)) {
	sc.notify = fn
}

// Start begins the background scan loop.
func (sc *Scanner) Start() {
	if !sc.config.Enabled {
		sc.logger.Info().Msg("scanner disabled")
		return
	}
	sc.wg.Add(1)
	go sc.runLoop()
	sc.logger.Info().
		Dur("interval", sc.config.ScanInterval).
		Int("workers", sc.config.WorkerCount).
		Msg("scanner started")
}

func (sc *Scanner) runLoop() {
	defer sc.wg.Done()

	interval := sc.config.ScanInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-sc.stopChan
		cancel()
	}()

	sc.runScan(ctx)

	for {
		select {
		case <-ticker.C:
			sc.runScan(ctx)
		case <-sc.stopChan:
			sc.logger.Info().Msg("scanner stopped")
			return
		}
	}
}

// Scan executes a single batch run (also used for manual triggering).
func (sc *Scanner) Scan(ctx context.Context) *ScanResult {
	return sc.runScan(ctx)
}

func (sc *Scanner) runScan(ctx context.Context) *ScanResult {
	start := time.Now()
	scanID := uuid.NewString()
	symbols := sc.symbolsToScan(ctx)

	sc.logger.Info().Str("scan_id", scanID).Int("symbols", len(symbols)).Msg("starting scan")

	// The benchmark is fetched once and shared read-only by all workers.
	benchmark, err := sc.provider.FetchBenchmarkHistory(ctx, sc.analyzer.Config().BenchmarkRange)
	if err != nil {
		sc.logger.Warn().Err(err).Msg("benchmark fetch failed, relative strength degraded for this scan")
		benchmark = nil
	}

	symbolChan := make(chan string, len(symbols))
	resultChan := make(chan *screener.AnalysisResult, len(symbols))
	var wg sync.WaitGroup

	for i := 0; i < sc.config.WorkerCount; i++ {
		wg.Add(1)
		go sc.worker(ctx, benchmark, symbolChan, resultChan, &wg)
	}

	// Cancellation stops dispatch; in-flight symbols finish on their own.
	go func() {
		defer close(symbolChan)
		for _, symbol := range symbols {
			select {
			case symbolChan <- symbol:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]screener.AnalysisResult, 0, len(symbols))
	for r := range resultChan {
		results = append(results, *r)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	// Skipped counts symbols that produced no result; the MaxSymbols cap
	// below trims successful analyses and must not inflate it.
	skipped := len(symbols) - len(results)
	if len(results) > sc.config.MaxSymbols {
		results = results[:sc.config.MaxSymbols]
	}

	scan := &ScanResult{
		ScanID:         scanID,
		StartTime:      start,
		EndTime:        time.Now(),
		Duration:       time.Since(start),
		SymbolsScanned: len(symbols),
		Skipped:        skipped,
		Results:        results,
	}

	sc.mu.Lock()
	sc.lastResult = scan
	sc.mu.Unlock()

	sc.cache.CleanupExpired()

	sc.logger.Info().
		Str("scan_id", scanID).
		Dur("duration", scan.Duration).
		Int("analyzed", len(results)).
		Int("skipped", scan.Skipped).
		Msg("scan completed")

	if sc.notify != nil {
		sc.notify(scan)
	}
	return scan
}

func (sc *Scanner) worker(ctx context.Context, benchmark marketdata.Series, symbolChan <-chan string, resultChan chan<- *screener.AnalysisResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for symbol := range symbolChan {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if cached := sc.cache.Get(symbol); cached != nil {
			resultChan <- cached
			continue
		}

		series, err := sc.provider.FetchHistory(ctx, symbol, sc.analyzer.Config().HistoryRange)
		if err != nil || len(series) == 0 {
			sc.logger.Debug().Err(err).Str("symbol", symbol).Msg("no history, symbol skipped")
			continue
		}

		result := sc.analyzer.AnalyzeSeries(symbol, series, benchmark)
		sc.cache.Set(symbol, result)
		resultChan <- result
	}
}

// symbolsToScan merges watchlist symbols (first) with the configured
// defaults, deduplicated.
func (sc *Scanner) symbolsToScan(ctx context.Context) []string {
	seen := make(map[string]bool)
	symbols := make([]string, 0, len(sc.config.Symbols))

	if sc.watchlist != nil {
		watched, err := sc.watchlist.Symbols(ctx)
		if err != nil {
			sc.logger.Warn().Err(err).Msg("watchlist unavailable, using configured symbols")
		} else {
			for _, s := range watched {
				if !seen[s] {
					seen[s] = true
					symbols = append(symbols, s)
				}
			}
		}
	}

	for _, s := range sc.config.Symbols {
		if !seen[s] {
			seen[s] = true
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// LastResult returns the most recent completed scan, or nil.
func (sc *Scanner) LastResult() *ScanResult {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.lastResult
}

// Stop shuts the scan loop down and waits for it to exit.
func (sc *Scanner) Stop() {
	close(sc.stopChan)
	sc.wg.Wait()
}
