// Package http serves the widget page, the JSON stats API, metrics and
// the WebSocket endpoint.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leetstats/internal/core"
	wsProtocol "leetstats/internal/protocols/websocket"
	"leetstats/pkg/config"
	"leetstats/pkg/logger"
)

// Server manages the HTTP widget server
type Server struct {
	router    *gin.Engine
	config    *config.Config
	fetcher   core.Fetcher
	hub       *wsProtocol.Hub
	wsHandler *wsProtocol.Handler
	srv       *http.Server
}

// NewServer creates a new HTTP server backed by fetcher
func NewServer(cfg *config.Config, fetcher core.Fetcher) *Server {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware())
	router.Use(gin.Recovery())
	router.Use(metricsMiddleware())
	router.Use(tracingMiddleware())
	router.Use(corsMiddleware(cfg.Server.AllowedOrigins))

	hub := wsProtocol.NewHub()
	s := &Server{
		router:    router,
		config:    cfg,
		fetcher:   fetcher,
		hub:       hub,
		wsHandler: wsProtocol.NewHandler(hub, fetcher, cfg.APITimeout(), cfg.Server.AllowedOrigins),
	}

	s.srv = &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	router.SetHTMLTemplate(widgetTemplate)
	s.setupRoutes()
	return s
}

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/stats/:username", s.getStats)
	}

	s.router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/widget")
	})
	s.router.GET("/widget", s.widgetPage)
	s.router.GET("/widget/:username", s.widgetPage)
	s.router.GET("/ws/widget", s.wsHandler.HandleWebSocket)
}

// Start listens on the configured address and blocks until Shutdown
func (s *Server) Start() error {
	logger.Infof("HTTP server listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes widget connections
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	s.hub.Stop()
	return err
}

// Router returns the gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Hub returns the WebSocket hub
func (s *Server) Hub() *wsProtocol.Hub {
	return s.hub
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"time":        time.Now().Format(time.RFC3339),
		"connections": s.hub.ClientCount(),
	})
}
