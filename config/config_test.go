package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MarketDataConfig.BenchmarkSymbol != "SPY" {
		t.Errorf("Expected default benchmark SPY, got %s", cfg.MarketDataConfig.BenchmarkSymbol)
	}
	if cfg.AnalysisConfig.RiskFraction != 0.01 {
		t.Errorf("Expected default risk fraction 0.01, got %f", cfg.AnalysisConfig.RiskFraction)
	}
	if cfg.AnalysisConfig.HistoryRange != "2y" {
		t.Errorf("Expected default history range 2y, got %s", cfg.AnalysisConfig.HistoryRange)
	}
	if cfg.ServerConfig.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.ServerConfig.Port)
	}
	if cfg.ScannerConfig.WorkerCount != 4 {
		t.Errorf("Expected default worker count 4, got %d", cfg.ScannerConfig.WorkerCount)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ACCOUNT_BALANCE", "250000")
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("SCANNER_SYMBOLS", "aapl, msft ,NVDA")
	t.Setenv("BENCHMARK_SYMBOL", "QQQ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AnalysisConfig.AccountBalance != 250000 {
		t.Errorf("Expected balance 250000, got %f", cfg.AnalysisConfig.AccountBalance)
	}
	if cfg.ServerConfig.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.ServerConfig.Port)
	}
	if cfg.MarketDataConfig.BenchmarkSymbol != "QQQ" {
		t.Errorf("Expected benchmark QQQ, got %s", cfg.MarketDataConfig.BenchmarkSymbol)
	}

	symbols := cfg.ScannerConfig.Symbols
	if len(symbols) != 3 || symbols[0] != "AAPL" || symbols[1] != "MSFT" || symbols[2] != "NVDA" {
		t.Errorf("Symbols should be uppercased and trimmed, got %v", symbols)
	}
}

func TestFileValuesSurviveEnvMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"market_data": {"mock_mode": true, "benchmark_symbol": "IWM"},
		"scanner": {"enabled": false, "worker_count": 8},
		"analysis": {"account_balance": 50000}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := loadFromFile(path)
	if err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}
	applyEnvOverrides(cfg)

	// With no env vars set, the file values must win over the defaults
	if !cfg.MarketDataConfig.MockMode {
		t.Error("mock_mode=true in the file should survive the merge")
	}
	if cfg.ScannerConfig.Enabled {
		t.Error("enabled=false in the file should survive the merge")
	}
	if cfg.MarketDataConfig.BenchmarkSymbol != "IWM" {
		t.Errorf("Expected benchmark IWM from file, got %s", cfg.MarketDataConfig.BenchmarkSymbol)
	}
	if cfg.ScannerConfig.WorkerCount != 8 {
		t.Errorf("Expected 8 workers from file, got %d", cfg.ScannerConfig.WorkerCount)
	}
	if cfg.AnalysisConfig.AccountBalance != 50000 {
		t.Errorf("Expected balance 50000 from file, got %f", cfg.AnalysisConfig.AccountBalance)
	}

	// Absent keys still pick up the defaults
	if cfg.ServerConfig.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.ServerConfig.Port)
	}
}

func TestFileAbsentKeysKeepScannerEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server": {"port": 9000}}`), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := loadFromFile(path)
	if err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}
	applyEnvOverrides(cfg)

	if !cfg.ScannerConfig.Enabled {
		t.Error("Scanner should default to enabled when the file omits it")
	}
	if cfg.ServerConfig.Port != 9000 {
		t.Errorf("Expected port 9000 from file, got %d", cfg.ServerConfig.Port)
	}
}

func TestEnvOverrideIgnoresGarbage(t *testing.T) {
	t.Setenv("WEB_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerConfig.Port != 8080 {
		t.Errorf("A bad numeric override should fall back to the default, got %d", cfg.ServerConfig.Port)
	}
}

func TestScannerDurations(t *testing.T) {
	sc := ScannerConfig{ScanInterval: 900, CacheTTL: 300}

	if sc.ScanIntervalDuration().Minutes() != 15 {
		t.Errorf("Expected 15 minute interval, got %s", sc.ScanIntervalDuration())
	}
	if sc.CacheTTLDuration().Minutes() != 5 {
		t.Errorf("Expected 5 minute TTL, got %s", sc.CacheTTLDuration())
	}
}
