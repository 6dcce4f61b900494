package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MarketDataConfig MarketDataConfig `json:"market_data"`
	AnalysisConfig   AnalysisConfig   `json:"analysis"`
	ScannerConfig    ScannerConfig    `json:"scanner"`
	ServerConfig     ServerConfig     `json:"server"`
	DatabaseConfig   DatabaseConfig   `json:"database"`
	RedisConfig      RedisConfig      `json:"redis"`
	LoggingConfig    LoggingConfig    `json:"logging"`
}

// MarketDataConfig holds history-provider configuration.
type MarketDataConfig struct {
	BaseURL         string `json:"base_url"`         // Yahoo Finance chart API base
	BenchmarkSymbol string `json:"benchmark_symbol"` // broad-market benchmark ticker
	MockMode        bool   `json:"mock_mode"`        // use deterministic synthetic data
	CacheTTL        int    `json:"cache_ttl"`        // history cache TTL in seconds
}

// AnalysisConfig holds the engine parameters.
type AnalysisConfig struct {
	AccountBalance  float64 `json:"account_balance"`
	RiskFraction    float64 `json:"risk_fraction"`     // fraction of account risked per trade
	HistoryRange    string  `json:"history_range"`     // e.g. "2y"
	BenchmarkRange  string  `json:"benchmark_range"`   // e.g. "1y"
	VolumeAvgPeriod int     `json:"volume_avg_period"` // sessions in the volume average
}

// ScannerConfig holds batch-screening configuration.
type ScannerConfig struct {
	Enabled      bool     `json:"enabled"`
	ScanInterval int      `json:"scan_interval"` // seconds between scans
	MaxSymbols   int      `json:"max_symbols"`   // max results kept per scan
	WorkerCount  int      `json:"worker_count"`  // concurrent workers
	CacheTTL     int      `json:"cache_ttl"`     // result cache TTL in seconds
	Symbols      []string `json:"symbols"`       // default universe
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int    `json:"port"`
	Host            string `json:"host"`
	AllowedOrigins  string `json:"allowed_origins"`
	ReadTimeout     int    `json:"read_timeout"`     // seconds
	WriteTimeout    int    `json:"write_timeout"`    // seconds
	ShutdownTimeout int    `json:"shutdown_timeout"` // seconds
}

// DatabaseConfig holds PostgreSQL configuration for the watchlist store.
type DatabaseConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslmode"`
}

// RedisConfig holds Redis configuration for the history cache.
type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level   string `json:"level"`   // debug, info, warn, error
	Console bool   `json:"console"` // human-readable console output instead of JSON
}

func Load() (*Config, error) {
	// Base config from file if present; env overrides take precedence.
	cfg, err := loadFromFile("config.json")
	if err != nil {
		cfg = baseConfig()
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// baseConfig carries the defaults that cannot be expressed as
// zero-value fallbacks. Unmarshalling the config file on top of it
// keeps them for absent keys while an explicit false still wins.
func baseConfig() *Config {
	return &Config{
		ScannerConfig: ScannerConfig{Enabled: true},
	}
}

func applyEnvOverrides(cfg *Config) {
	// Market data
	cfg.MarketDataConfig.BaseURL = getEnvOrDefault("MARKET_DATA_BASE_URL", cfg.MarketDataConfig.BaseURL)
	if cfg.MarketDataConfig.BaseURL == "" {
		cfg.MarketDataConfig.BaseURL = "https://query1.finance.yahoo.com"
	}
	cfg.MarketDataConfig.BenchmarkSymbol = getEnvOrDefault("BENCHMARK_SYMBOL", defaultString(cfg.MarketDataConfig.BenchmarkSymbol, "SPY"))
	cfg.MarketDataConfig.MockMode = getEnvOrDefault("MOCK_MODE", boolString(cfg.MarketDataConfig.MockMode)) == "true"
	cfg.MarketDataConfig.CacheTTL = getEnvIntOrDefault("MARKET_DATA_CACHE_TTL", defaultInt(cfg.MarketDataConfig.CacheTTL, 900))

	// Analysis
	cfg.AnalysisConfig.AccountBalance = getEnvFloatOrDefault("ACCOUNT_BALANCE", defaultFloat(cfg.AnalysisConfig.AccountBalance, 100000))
	cfg.AnalysisConfig.RiskFraction = getEnvFloatOrDefault("RISK_FRACTION", defaultFloat(cfg.AnalysisConfig.RiskFraction, 0.01))
	cfg.AnalysisConfig.HistoryRange = getEnvOrDefault("HISTORY_RANGE", defaultString(cfg.AnalysisConfig.HistoryRange, "2y"))
	cfg.AnalysisConfig.BenchmarkRange = getEnvOrDefault("BENCHMARK_RANGE", defaultString(cfg.AnalysisConfig.BenchmarkRange, "1y"))
	cfg.AnalysisConfig.VolumeAvgPeriod = getEnvIntOrDefault("VOLUME_AVG_PERIOD", defaultInt(cfg.AnalysisConfig.VolumeAvgPeriod, 50))

	// Scanner
	cfg.ScannerConfig.Enabled = getEnvOrDefault("SCANNER_ENABLED", boolString(cfg.ScannerConfig.Enabled)) == "true"
	cfg.ScannerConfig.ScanInterval = getEnvIntOrDefault("SCANNER_INTERVAL", defaultInt(cfg.ScannerConfig.ScanInterval, 900))
	cfg.ScannerConfig.MaxSymbols = getEnvIntOrDefault("SCANNER_MAX_SYMBOLS", defaultInt(cfg.ScannerConfig.MaxSymbols, 50))
	cfg.ScannerConfig.WorkerCount = getEnvIntOrDefault("SCANNER_WORKERS", defaultInt(cfg.ScannerConfig.WorkerCount, 4))
	cfg.ScannerConfig.CacheTTL = getEnvIntOrDefault("SCANNER_CACHE_TTL", defaultInt(cfg.ScannerConfig.CacheTTL, 300))
	if symbols := os.Getenv("SCANNER_SYMBOLS"); symbols != "" {
		cfg.ScannerConfig.Symbols = splitSymbols(symbols)
	}

	// Server
	cfg.ServerConfig.Port = getEnvIntOrDefault("WEB_PORT", defaultInt(cfg.ServerConfig.Port, 8080))
	cfg.ServerConfig.Host = getEnvOrDefault("WEB_HOST", defaultString(cfg.ServerConfig.Host, "0.0.0.0"))
	cfg.ServerConfig.AllowedOrigins = getEnvOrDefault("SERVER_ALLOWED_ORIGINS", defaultString(cfg.ServerConfig.AllowedOrigins, "*"))
	cfg.ServerConfig.ReadTimeout = getEnvIntOrDefault("SERVER_READ_TIMEOUT", defaultInt(cfg.ServerConfig.ReadTimeout, 30))
	cfg.ServerConfig.WriteTimeout = getEnvIntOrDefault("SERVER_WRITE_TIMEOUT", defaultInt(cfg.ServerConfig.WriteTimeout, 30))
	cfg.ServerConfig.ShutdownTimeout = getEnvIntOrDefault("SERVER_SHUTDOWN_TIMEOUT", defaultInt(cfg.ServerConfig.ShutdownTimeout, 10))

	// Database
	cfg.DatabaseConfig.Enabled = getEnvOrDefault("DB_ENABLED", boolString(cfg.DatabaseConfig.Enabled)) == "true"
	cfg.DatabaseConfig.Host = getEnvOrDefault("DB_HOST", defaultString(cfg.DatabaseConfig.Host, "localhost"))
	cfg.DatabaseConfig.Port = getEnvIntOrDefault("DB_PORT", defaultInt(cfg.DatabaseConfig.Port, 5432))
	cfg.DatabaseConfig.User = getEnvOrDefault("DB_USER", defaultString(cfg.DatabaseConfig.User, "screener"))
	cfg.DatabaseConfig.Password = getEnvOrDefault("DB_PASSWORD", cfg.DatabaseConfig.Password)
	cfg.DatabaseConfig.Database = getEnvOrDefault("DB_NAME", defaultString(cfg.DatabaseConfig.Database, "screener"))
	cfg.DatabaseConfig.SSLMode = getEnvOrDefault("DB_SSLMODE", defaultString(cfg.DatabaseConfig.SSLMode, "disable"))

	// Redis
	cfg.RedisConfig.Enabled = getEnvOrDefault("REDIS_ENABLED", boolString(cfg.RedisConfig.Enabled)) == "true"
	cfg.RedisConfig.Address = getEnvOrDefault("REDIS_ADDRESS", defaultString(cfg.RedisConfig.Address, "localhost:6379"))
	cfg.RedisConfig.Password = getEnvOrDefault("REDIS_PASSWORD", cfg.RedisConfig.Password)
	cfg.RedisConfig.DB = getEnvIntOrDefault("REDIS_DB", cfg.RedisConfig.DB)

	// Logging
	cfg.LoggingConfig.Level = getEnvOrDefault("LOG_LEVEL", defaultString(cfg.LoggingConfig.Level, "info"))
	cfg.LoggingConfig.Console = getEnvOrDefault("LOG_CONSOLE", boolString(cfg.LoggingConfig.Console)) == "true"
}

// ScanIntervalDuration returns the scan interval as a duration.
func (c ScannerConfig) ScanIntervalDuration() time.Duration {
	return time.Duration(c.ScanInterval) * time.Second
}

// CacheTTLDuration returns the result cache TTL as a duration.
func (c ScannerConfig) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// CacheTTLDuration returns the history cache TTL as a duration.
func (c MarketDataConfig) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

func loadFromFile(filename string) (*Config, error) {
	file, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := baseConfig()
	if err := json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.ToUpper(strings.TrimSpace(p)); trimmed != "" {
			symbols = append(symbols, trimmed)
		}
	}
	return symbols
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func defaultFloat(value, fallback float64) float64 {
	if value == 0 {
		return fallback
	}
	return value
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
