package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"minervini-screener/config"
	"minervini-screener/internal/api"
	"minervini-screener/internal/database"
	"minervini-screener/internal/marketdata"
	"minervini-screener/internal/scanner"
	"minervini-screener/internal/screener"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := newLogger(cfg.LoggingConfig)
	logger.Info().Msg("Starting Minervini screener")

	// Market data provider, optionally Redis-cached.
	var provider marketdata.HistoryProvider
	if cfg.MarketDataConfig.MockMode {
		provider = marketdata.NewMockProvider()
		logger.Warn().Msg("Mock market data enabled")
	} else {
		provider = marketdata.NewYahooClient(cfg.MarketDataConfig.BaseURL, cfg.MarketDataConfig.BenchmarkSymbol)
	}
	if cfg.RedisConfig.Enabled {
		client := marketdata.NewRedisClient(cfg.RedisConfig.Address, cfg.RedisConfig.Password, cfg.RedisConfig.DB, logger)
		provider = marketdata.NewCachedProvider(provider, client, cfg.MarketDataConfig.CacheTTLDuration(), logger)
	}

	// Watchlist store (optional).
	var repo *database.Repository
	if cfg.DatabaseConfig.Enabled {
		db, err := database.NewDB(database.Config{
			Host:     cfg.DatabaseConfig.Host,
			Port:     cfg.DatabaseConfig.Port,
			User:     cfg.DatabaseConfig.User,
			Password: cfg.DatabaseConfig.Password,
			Database: cfg.DatabaseConfig.Database,
			SSLMode:  cfg.DatabaseConfig.SSLMode,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.RunMigrations(ctx); err != nil {
			cancel()
			logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
		cancel()

		repo = database.NewRepository(db)
	}

	analyzer := screener.NewAnalyzer(provider, screener.Config{
		AccountBalance:  cfg.AnalysisConfig.AccountBalance,
		RiskFraction:    cfg.AnalysisConfig.RiskFraction,
		HistoryRange:    cfg.AnalysisConfig.HistoryRange,
		BenchmarkRange:  cfg.AnalysisConfig.BenchmarkRange,
		VolumeAvgPeriod: cfg.AnalysisConfig.VolumeAvgPeriod,
	}, logger)

	var watchlist scanner.WatchlistSource
	if repo != nil {
		watchlist = repo
	}
	batchScanner := scanner.New(provider, analyzer, watchlist, scanner.Config{
		Enabled:      cfg.ScannerConfig.Enabled,
		ScanInterval: cfg.ScannerConfig.ScanIntervalDuration(),
		MaxSymbols:   cfg.ScannerConfig.MaxSymbols,
		WorkerCount:  cfg.ScannerConfig.WorkerCount,
		CacheTTL:     cfg.ScannerConfig.CacheTTLDuration(),
		Symbols:      cfg.ScannerConfig.Symbols,
	}, logger)

	server := api.NewServer(api.ServerConfig{
		Port:           cfg.ServerConfig.Port,
		Host:           cfg.ServerConfig.Host,
		AllowedOrigins: strings.Split(cfg.ServerConfig.AllowedOrigins, ","),
		ReadTimeout:    time.Duration(cfg.ServerConfig.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.ServerConfig.WriteTimeout) * time.Second,
		ProductionMode: cfg.LoggingConfig.Level != "debug",
	}, analyzer, batchScanner, repo, logger)

	// Completed scans stream to WebSocket clients.
	hub := server.Hub()
	batchScanner.SetNotifier(hub.BroadcastScan)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("Web server failed")
		}
	}()

	batchScanner.Start()

	logger.Info().
		Int("port", cfg.ServerConfig.Port).
		Bool("scanner", cfg.ScannerConfig.Enabled).
		Msg("Screener running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ServerConfig.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error shutting down web server")
	}
	batchScanner.Stop()

	logger.Info().Msg("Shutdown complete")
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Console {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
