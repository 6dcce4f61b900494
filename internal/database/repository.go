package database

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// WatchlistEntry is one tracked symbol.
type WatchlistEntry struct {
	Symbol  string    `json:"symbol"`
	AddedAt time.Time `json:"added_at"`
}

// Repository provides data access methods
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// HealthCheck performs a database health check
func (r *Repository) HealthCheck(ctx context.Context) error {
	return r.db.Pool.Ping(ctx)
}

// AddSymbol adds a symbol to the watchlist. Adding an existing symbol is a no-op.
func (r *Repository) AddSymbol(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	query := `
		INSERT INTO watchlist (symbol)
		VALUES ($1)
		ON CONFLICT (symbol) DO NOTHING
	`
	_, err := r.db.Pool.Exec(ctx, query, symbol)
	return err
}

// RemoveSymbol removes a symbol from the watchlist
func (r *Repository) RemoveSymbol(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM watchlist WHERE symbol = $1`, symbol)
	return err
}

// GetWatchlist returns all watchlist entries ordered by when they were added
func (r *Repository) GetWatchlist(ctx context.Context) ([]WatchlistEntry, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT symbol, added_at FROM watchlist ORDER BY added_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []WatchlistEntry
	for rows.Next() {
		var e WatchlistEntry
		if err := rows.Scan(&e.Symbol, &e.AddedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Symbols returns the watchlist symbols. Implements scanner.WatchlistSource.
func (r *Repository) Symbols(ctx context.Context) ([]string, error) {
	entries, err := r.GetWatchlist(ctx)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(entries))
	for _, e := range entries {
		symbols = append(symbols, e.Symbol)
	}
	return symbols, nil
}
