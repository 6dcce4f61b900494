package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"minervini-screener/internal/marketdata"
	"minervini-screener/internal/scanner"
	"minervini-screener/internal/screener"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	mock := marketdata.NewMockProvider()
	mock.SetHistory("NONE", marketdata.Series{})
	flat := make(marketdata.Series, 60)
	for i := range flat {
		flat[i] = marketdata.Bar{Open: 100, High: 100, Low: 90, Close: 100, Volume: 1_000_000}
	}
	mock.SetHistory("FLAT", flat)

	analyzer := screener.NewAnalyzer(mock, screener.Config{AccountBalance: 100000}, zerolog.Nop())
	sc := scanner.New(mock, analyzer, nil, scanner.Config{
		Symbols:     []string{"FLAT"},
		WorkerCount: 1,
	}, zerolog.Nop())

	return NewServer(ServerConfig{
		Port:           0,
		Host:           "127.0.0.1",
		AllowedOrigins: []string{"*"},
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
		ProductionMode: true,
	}, analyzer, sc, nil, zerolog.Nop())
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", body["status"])
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/analyze/FLAT", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result screener.AnalysisResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if result.Symbol != "FLAT" {
		t.Errorf("Expected symbol FLAT, got %s", result.Symbol)
	}
	if result.BuyPoint != 100 {
		t.Errorf("Expected buy point 100, got %f", result.BuyPoint)
	}
	if result.MaxShares != 142 {
		t.Errorf("Expected 142 shares at the default balance, got %d", result.MaxShares)
	}
}

func TestAnalyzeEndpointBalanceOverride(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/analyze/FLAT?balance=200000", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var result screener.AnalysisResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if result.MaxShares != 285 {
		t.Errorf("Expected 285 shares with doubled balance, got %d", result.MaxShares)
	}
}

func TestAnalyzeEndpointBadBalance(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/analyze/FLAT?balance=-5", "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a negative balance, got %d", w.Code)
	}
}

func TestAnalyzeEndpointUnknownSymbol(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/analyze/NONE", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a symbol without history, got %d", w.Code)
	}
}

func TestScanEndpoints(t *testing.T) {
	s := newTestServer(t)

	// No scan has run yet
	w := doRequest(s, http.MethodGet, "/api/scan/latest", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 before any scan, got %d", w.Code)
	}

	w = doRequest(s, http.MethodPost, "/api/scan", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from manual scan, got %d: %s", w.Code, w.Body.String())
	}

	var result scanner.ScanResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if result.SymbolsScanned != 1 {
		t.Errorf("Expected 1 symbol scanned, got %d", result.SymbolsScanned)
	}

	w = doRequest(s, http.MethodGet, "/api/scan/latest", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 after a scan, got %d", w.Code)
	}
}

func TestWatchlistDisabledWithoutStore(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/watchlist", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a store, got %d", w.Code)
	}

	w = doRequest(s, http.MethodPost, "/api/watchlist", `{"symbol":"AAPL"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a store, got %d", w.Code)
	}
}
