package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"minervini-screener/internal/screener"
)

// handleHealth returns server health status
func (s *Server) handleHealth(c *gin.Context) {
	health := gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().UTC(),
		"ws_clients": s.hub.ClientCount(),
	}
	if s.repo != nil {
		if err := s.repo.HealthCheck(c.Request.Context()); err != nil {
			health["status"] = "degraded"
			health["database"] = "unreachable"
		} else {
			health["database"] = "ok"
		}
	}
	c.JSON(http.StatusOK, health)
}

// handleAnalyze runs the full analysis pipeline for one symbol.
// An optional ?balance= query overrides the configured account balance
// for position sizing.
func (s *Server) handleAnalyze(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	balance := 0.0
	if raw := c.Query("balance"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "balance must be a positive number"})
			return
		}
		balance = parsed
	}

	result, err := s.analyzer.AnalyzeWithBalance(c.Request.Context(), symbol, balance)
	if err != nil {
		if errors.Is(err, screener.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no history available", "symbol": symbol})
			return
		}
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("analysis failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch market data"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleScan triggers a batch scan and returns its result
func (s *Server) handleScan(c *gin.Context) {
	if s.scanner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scanner not running"})
		return
	}
	result := s.scanner.Scan(c.Request.Context())
	c.JSON(http.StatusOK, result)
}

// handleLatestScan returns the most recent completed scan
func (s *Server) handleLatestScan(c *gin.Context) {
	if s.scanner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scanner not running"})
		return
	}
	result := s.scanner.LastResult()
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no scan completed yet"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleGetWatchlist returns all watchlist entries
func (s *Server) handleGetWatchlist(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "watchlist store disabled"})
		return
	}
	entries, err := s.repo.GetWatchlist(c.Request.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load watchlist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load watchlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"watchlist": entries, "count": len(entries)})
}

// handleAddWatchlist adds a symbol to the watchlist
func (s *Server) handleAddWatchlist(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "watchlist store disabled"})
		return
	}

	var req struct {
		Symbol string `json:"symbol" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := s.repo.AddSymbol(c.Request.Context(), symbol); err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("failed to add watchlist symbol")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add symbol"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"symbol": symbol, "added": true})
}

// handleRemoveWatchlist removes a symbol from the watchlist
func (s *Server) handleRemoveWatchlist(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "watchlist store disabled"})
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if err := s.repo.RemoveSymbol(c.Request.Context(), symbol); err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("failed to remove watchlist symbol")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove symbol"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "removed": true})
}
