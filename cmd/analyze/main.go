// Command analyze runs the full analysis pipeline for one symbol and
// prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"minervini-screener/internal/marketdata"
	"minervini-screener/internal/screener"
)

func main() {
	var (
		symbol    = flag.String("symbol", "", "ticker symbol to analyze (required)")
		balance   = flag.Float64("balance", 100000, "account balance for position sizing")
		benchmark = flag.String("benchmark", "SPY", "benchmark symbol for relative strength")
		mock      = flag.Bool("mock", false, "use deterministic synthetic data")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *symbol == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -symbol AAPL [-balance 100000]")
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

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := analyzer.Analyze(ctx, *symbol)
	if err != nil {
		logger.Fatal().Err(err).Msg("analysis failed")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to encode result")
	}
	fmt.Println(string(out))
}
