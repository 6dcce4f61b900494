package marketdata

import "context"

// HistoryProvider supplies daily OHLCV history for securities and the
// market benchmark. Implementations must return an empty series (not an
// error) when a symbol has no data.
type HistoryProvider interface {
	// FetchHistory returns daily bars for the symbol over the given
	// range (Yahoo-style range string, e.g. "2y", "1y", "6mo").
	FetchHistory(ctx context.Context, symbol, rng string) (Series, error)

	// FetchBenchmarkHistory returns daily bars for the configured
	// broad-market benchmark over the given range.
	FetchBenchmarkHistory(ctx context.Context, rng string) (Series, error)
}
