package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"minervini-screener/internal/marketdata"
	"minervini-screener/internal/screener"
)

func newTestScanner(mock *marketdata.MockProvider, cfg Config, watchlist WatchlistSource) *Scanner {
	analyzer := screener.NewAnalyzer(mock, screener.Config{AccountBalance: 100000}, zerolog.Nop())
	return New(mock, analyzer, watchlist, cfg, zerolog.Nop())
}

func TestScanAnalyzesAllSymbols(t *testing.T) {
	mock := marketdata.NewMockProvider()
	sc := newTestScanner(mock, Config{
		Symbols:     []string{"AAA", "BBB", "CCC"},
		WorkerCount: 2,
	}, nil)

	result := sc.Scan(context.Background())

	if result.ScanID == "" {
		t.Error("Scan should carry an ID")
	}
	if result.SymbolsScanned != 3 {
		t.Errorf("Expected 3 symbols scanned, got %d", result.SymbolsScanned)
	}
	if len(result.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(result.Results))
	}
	if result.Skipped != 0 {
		t.Errorf("Expected 0 skipped, got %d", result.Skipped)
	}

	// Results come back sorted by score descending
	for i := 1; i < len(result.Results); i++ {
		if result.Results[i].Score > result.Results[i-1].Score {
			t.Error("Results should be sorted by score descending")
		}
	}
}

func TestScanSkipsSymbolsWithoutHistory(t *testing.T) {
	mock := marketdata.NewMockProvider()
	mock.SetHistory("EMPTY", marketdata.Series{})

	sc := newTestScanner(mock, Config{
		Symbols:     []string{"AAA", "EMPTY"},
		WorkerCount: 2,
	}, nil)

	result := sc.Scan(context.Background())

	if result.SymbolsScanned != 2 {
		t.Errorf("Expected 2 symbols scanned, got %d", result.SymbolsScanned)
	}
	if len(result.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(result.Results))
	}
	if result.Skipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", result.Skipped)
	}
	if result.Results[0].Symbol != "AAA" {
		t.Errorf("Expected AAA to survive, got %s", result.Results[0].Symbol)
	}
}

func TestScanCapsResults(t *testing.T) {
	mock := marketdata.NewMockProvider()
	sc := newTestScanner(mock, Config{
		Symbols:     []string{"A", "B", "C", "D", "E"},
		WorkerCount: 2,
		MaxSymbols:  2,
	}, nil)

	result := sc.Scan(context.Background())

	if len(result.Results) != 2 {
		t.Errorf("Expected results capped at 2, got %d", len(result.Results))
	}
	if result.SymbolsScanned != 5 {
		t.Errorf("Expected 5 symbols scanned, got %d", result.SymbolsScanned)
	}
	// Capped symbols analyzed fine and must not count as skipped
	if result.Skipped != 0 {
		t.Errorf("Expected 0 skipped when all symbols analyzed, got %d", result.Skipped)
	}
}

func TestScanCapDoesNotHideFailures(t *testing.T) {
	mock := marketdata.NewMockProvider()
	mock.SetHistory("EMPTY", marketdata.Series{})

	sc := newTestScanner(mock, Config{
		Symbols:     []string{"A", "B", "C", "EMPTY"},
		WorkerCount: 2,
		MaxSymbols:  2,
	}, nil)

	result := sc.Scan(context.Background())

	if len(result.Results) != 2 {
		t.Errorf("Expected results capped at 2, got %d", len(result.Results))
	}
	if result.Skipped != 1 {
		t.Errorf("Expected only the historyless symbol skipped, got %d", result.Skipped)
	}
}

type staticWatchlist []string

func (w staticWatchlist) Symbols(ctx context.Context) ([]string, error) {
	return w, nil
}

func TestScanMergesWatchlistWithConfig(t *testing.T) {
	mock := marketdata.NewMockProvider()
	sc := newTestScanner(mock, Config{
		Symbols:     []string{"BBB", "AAA"},
		WorkerCount: 2,
	}, staticWatchlist{"AAA", "CCC"})

	result := sc.Scan(context.Background())

	// AAA appears in both sources but is scanned once
	if result.SymbolsScanned != 3 {
		t.Errorf("Expected 3 deduplicated symbols, got %d", result.SymbolsScanned)
	}
}

func TestScanLastResult(t *testing.T) {
	mock := marketdata.NewMockProvider()
	sc := newTestScanner(mock, Config{
		Symbols:     []string{"AAA"},
		WorkerCount: 1,
	}, nil)

	if sc.LastResult() != nil {
		t.Error("LastResult should be nil before any scan")
	}

	result := sc.Scan(context.Background())

	last := sc.LastResult()
	if last == nil || last.ScanID != result.ScanID {
		t.Error("LastResult should return the completed scan")
	}
}

func TestScanNotifierReceivesResult(t *testing.T) {
	mock := marketdata.NewMockProvider()
	sc := newTestScanner(mock, Config{
		Symbols:     []string{"AAA"},
		WorkerCount: 1,
	}, nil)

	var notified *ScanResult
	sc.SetNotifier(func(r *ScanResult) { notified = r })

	sc.Scan(context.Background())

	if notified == nil {
		t.Fatal("Notifier should have been invoked")
	}
	if len(notified.Results) != 1 {
		t.Errorf("Expected 1 result in notification, got %d", len(notified.Results))
	}
}

func TestScanCancelledContext(t *testing.T) {
	mock := marketdata.NewMockProvider()
	sc := newTestScanner(mock, Config{
		Symbols:     []string{"AAA", "BBB", "CCC"},
		WorkerCount: 1,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := sc.Scan(ctx)

	// Dispatch stops; no results are required, but the scan still
	// returns a well-formed record.
	if result.ScanID == "" {
		t.Error("A cancelled scan should still carry an ID")
	}
	if result.SymbolsScanned != 3 {
		t.Errorf("SymbolsScanned should report the universe size, got %d", result.SymbolsScanned)
	}
}

func TestResultCache(t *testing.T) {
	cache := newResultCache(50 * time.Millisecond)
	result := &screener.AnalysisResult{Symbol: "AAA", Score: 80}

	cache.Set("AAA", result)

	if got := cache.Get("AAA"); got == nil || got.Symbol != "AAA" {
		t.Error("Cache should return a fresh entry")
	}

	time.Sleep(60 * time.Millisecond)

	if cache.Get("AAA") != nil {
		t.Error("Cache should drop expired entries")
	}
}

func TestResultCacheDisabled(t *testing.T) {
	cache := newResultCache(0)
	cache.Set("AAA", &screener.AnalysisResult{Symbol: "AAA"})

	if cache.Get("AAA") != nil {
		t.Error("A zero TTL should disable the cache")
	}
}
