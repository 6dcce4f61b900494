package scanner

import (
	"time"

	"minervini-screener/internal/screener"
)

// Config holds scanner configuration.
type Config struct {
	Enabled      bool
	ScanInterval time.Duration
	MaxSymbols   int // cap on results kept per scan
	WorkerCount  int
	CacheTTL     time.Duration
	Symbols      []string // default universe when no watchlist exists
}

// ScanResult aggregates one batch run. Results are sorted by score
// descending and capped at MaxSymbols.
type ScanResult struct {
	ScanID         string                    `json:"scan_id"`
	StartTime      time.Time                 `json:"start_time"`
	EndTime        time.Time                 `json:"end_time"`
	Duration       time.Duration             `json:"duration"`
	SymbolsScanned int                       `json:"symbols_scanned"`
	Skipped        int                       `json:"skipped"`
	Results        []screener.AnalysisResult `json:"results"`
}

// cachedResult stores an analysis result with its expiry.
type cachedResult struct {
	Result    *screener.AnalysisResult
	ExpiresAt time.Time
}
