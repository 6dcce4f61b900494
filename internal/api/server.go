package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"minervini-screener/internal/database"
	"minervini-screener/internal/scanner"
	"minervini-screener/internal/screener"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	ProductionMode bool
}

// Server represents the HTTP API server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	analyzer   *screener.Analyzer
	scanner    *scanner.Scanner
	repo       *database.Repository // nil when the watchlist store is disabled
	hub        *WSHub
	config     ServerConfig
	logger     zerolog.Logger
}

// NewServer creates a new API server. repo may be nil.
func NewServer(config ServerConfig, analyzer *screener.Analyzer, sc *scanner.Scanner, repo *database.Repository, logger zerolog.Logger) *Server {
	if config.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(config.AllowedOrigins) == 1 && config.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = config.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	router.Use(cors.New(corsConfig))

	server := &Server{
		router:   router,
		analyzer: analyzer,
		scanner:  sc,
		repo:     repo,
		hub:      NewWSHub(logger),
		config:   config,
		logger:   logger.With().Str("component", "api").Logger(),
	}

	go server.hub.Run()
	server.setupRoutes()

	return server
}

// Hub returns the WebSocket hub for wiring scan notifications.
func (s *Server) Hub() *WSHub {
	return s.hub
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/analyze/:symbol", s.handleAnalyze)
		api.POST("/scan", s.handleScan)
		api.GET("/scan/latest", s.handleLatestScan)

		api.GET("/watchlist", s.handleGetWatchlist)
		api.POST("/watchlist", s.handleAddWatchlist)
		api.DELETE("/watchlist/:symbol", s.handleRemoveWatchlist)
	}

	s.router.GET("/ws", s.handleWebSocket)
}

// Start begins serving HTTP requests
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info().Str("addr", addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
