package marketdata

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
	"time"
)

// MockProvider serves canned or synthetic history for development and
// tests. Synthetic series are deterministic per symbol so repeated
// analyses of the same symbol produce identical results.
type MockProvider struct {
	mu        sync.RWMutex
	series    map[string]Series
	benchmark Series
}

// NewMockProvider creates an empty mock provider. Symbols without canned
// data get a deterministic synthetic uptrend.
func NewMockProvider() *MockProvider {
	return &MockProvider{series: make(map[string]Series)}
}

// SetHistory installs a canned series for a symbol. An explicitly empty
// series simulates an unknown symbol.
func (m *MockProvider) SetHistory(symbol string, s Series) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series[symbol] = s
}

// SetBenchmark installs the benchmark series.
func (m *MockProvider) SetBenchmark(s Series) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.benchmark = s
}

// FetchHistory returns the canned series for the symbol, or a synthetic
// deterministic series if none was installed.
func (m *MockProvider) FetchHistory(ctx context.Context, symbol, rng string) (Series, error) {
	m.mu.RLock()
	s, ok := m.series[symbol]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}
	return SyntheticSeries(symbol, 504), nil
}

// FetchBenchmarkHistory returns the canned benchmark series, or a
// synthetic one if none was installed.
func (m *MockProvider) FetchBenchmarkHistory(ctx context.Context, rng string) (Series, error) {
	m.mu.RLock()
	s := m.benchmark
	m.mu.RUnlock()
	if s != nil {
		return s, nil
	}
	return SyntheticSeries("BENCHMARK", 252), nil
}

// SyntheticSeries builds a deterministic daily series for a symbol: a
// gentle uptrend with a symbol-dependent base price and a small
// sinusoidal wobble. No randomness, so results are reproducible.
func SyntheticSeries(symbol string, bars int) Series {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	seed := float64(h.Sum32()%900) + 20 // base price 20..919

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	s := make(Series, 0, bars)
	for i := 0; i < bars; i++ {
		drift := 1 + 0.0008*float64(i)
		wobble := 1 + 0.01*math.Sin(float64(i)/9)
		close := seed * drift * wobble
		open := close * 0.998
		high := close * 1.006
		low := close * 0.993
		s = append(s, Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: 1_000_000 + 1000*float64(i%50),
		})
	}
	return s
}
