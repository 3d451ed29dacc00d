package websocket

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"leetstats/internal/core"
	"leetstats/pkg/logger"
)

// Handler upgrades widget connections
type Handler struct {
	hub            *Hub
	fetcher        core.Fetcher
	timeout        time.Duration
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewHandler creates a widget handler. A nil or empty origin list allows
// every origin, as does "*".
func NewHandler(hub *Hub, fetcher core.Fetcher, timeout time.Duration, allowedOrigins []string) *Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	h := &Handler{
		hub:            hub,
		fetcher:        fetcher,
		timeout:        timeout,
		allowedOrigins: allowedOrigins,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// HandleWebSocket upgrades the request and hands the connection to the hub
func (h *Handler) HandleWebSocket(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// gorilla already wrote the HTTP error response
		logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	h.hub.ServeClient(conn, id, core.NewLookup(h.fetcher).WithTimeout(h.timeout))
}

// checkOrigin validates request origin against allowed origins
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	// Non-browser clients may omit Origin; treat as allowed.
	if origin == "" {
		return true
	}

	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || strings.EqualFold(origin, allowed) {
			return true
		}
	}

	// Same-host pages are always allowed
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return false
}
