// Command screen runs one batch scan over a comma-separated symbol
// list and prints a ranked table.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"minervini-screener/internal/marketdata"
	"minervini-screener/internal/scanner"
	"minervini-screener/internal/screener"
)

func main() {
	var (
		symbols   = flag.String("symbols", "", "comma-separated symbols to scan (required)")
		balance   = flag.Float64("balance", 100000, "account balance for position sizing")
		benchmark = flag.String("benchmark", "SPY", "benchmark symbol for relative strength")
		workers   = flag.Int("workers", 4, "concurrent workers")
		top       = flag.Int("top", 50, "max results to keep")
		mock      = flag.Bool("mock", false, "use deterministic synthetic data")
		asJSON    = flag.Bool("json", false, "print the full scan result as JSON")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	universe := splitSymbols(*symbols)
	if len(universe) == 0 {
		fmt.Fprintln(os.Stderr, "usage: screen -symbols AAPL,MSFT,NVDA [-top 20]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	var provider marketdata.HistoryProvider
	if *mock {
		provider = marketdata.NewMockProvider()
	} else {
		provider = marketdata.NewYahooClient("", *benchmark)
	}

	analyzer := screener.NewAnalyzer(provider, screener.Config{
		AccountBalance: *balance,
	}, logger)

	batch := scanner.New(provider, analyzer, nil, scanner.Config{
		MaxSymbols:  *top,
		WorkerCount: *workers,
		Symbols:     universe,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result := batch.Scan(ctx)

	if *asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to encode result")
		}
		fmt.Println(string(out))
		return
	}

	fmt.Printf("Scanned %d symbols in %s (%d skipped)\n\n",
		result.SymbolsScanned, result.Duration.Round(time.Millisecond), result.Skipped)
	fmt.Printf("%-8s %-5s %6s %-8s %10s %10s %-14s %s\n",
		"SYMBOL", "GRADE", "SCORE", "VERDICT", "PRICE", "BUY", "STATUS", "PATTERN")
	for _, r := range result.Results {
		fmt.Printf("%-8s %-5s %6.1f %-8s %10.2f %10.2f %-14s %s\n",
			r.Symbol, r.Grade, r.Score, r.Verdict, r.CurrentPrice, r.BuyPoint, r.Status, r.Pattern)
	}
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.ToUpper(strings.TrimSpace(part)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
