// Package websocket serves the live widget: each connection owns one
// lookup orchestrator and one board, and receives the rendered slots.
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"leetstats/internal/core"
	"leetstats/internal/render"
	"leetstats/internal/telemetry"
	"leetstats/pkg/logger"
	"leetstats/pkg/models"
	"leetstats/pkg/utils"
)

const (
	maxMessageSize = 1024                // 1KB is plenty for a username
	writeWait      = 10 * time.Second    // Time allowed to write a message
	pongWait       = 60 * time.Second    // Time allowed to read the next pong
	pingPeriod     = (pongWait * 9) / 10 // Send pings to client
	sendBuffer     = 16
)

// Message types
const (
	TypeLookup  = "lookup"  // client: start a lookup for Username
	TypeInput   = "input"   // client: the user typed, clear the status
	TypeLoading = "loading" // server: a lookup started
	TypeRender  = "render"  // server: a lookup succeeded
	TypeStatus  = "status"  // server: a lookup failed or the status changed
	TypeError   = "error"   // server: the client sent something unusable
)

// Message is one frame in either direction
type Message struct {
	Type      string        `json:"type"`
	Username  string        `json:"username,omitempty"`
	Slots     *models.Slots `json:"slots,omitempty"`
	Message   string        `json:"message,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Hub tracks open widget connections
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	wg      sync.WaitGroup
}

// Client is one widget connection
type Client struct {
	id       string
	hub      *Hub
	conn     *websocket.Conn
	send     chan *Message
	done     chan struct{}
	closeMu  sync.Once
	ctx      context.Context
	cancel   context.CancelFunc
	lookup   *core.Lookup
	board    *render.Board
	renderer *render.Renderer
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// ServeClient registers conn and starts its pumps. The lookup is owned by
// this connection alone.
func (h *Hub) ServeClient(conn *websocket.Conn, id string, lookup *core.Lookup) {
	ctx, cancel := context.WithCancel(context.Background())
	board := render.NewBoard()
	client := &Client{
		id:       id,
		hub:      h,
		conn:     conn,
		send:     make(chan *Message, sendBuffer),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		lookup:   lookup,
		board:    board,
		renderer: render.New(board),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	telemetry.WebSocketConnections.Inc()
	logger.WebSocket(id, "connected")

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		telemetry.WebSocketConnections.Dec()
		logger.WebSocket(c.id, "disconnected")
	}
}

// ClientCount returns the number of open connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop closes every connection and waits for the pumps to exit
func (h *Hub) Stop() {
	logger.Info("Stopping WebSocket hub...")

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.close()
	}
	h.wg.Wait()
	logger.Info("WebSocket hub stopped")
}

func (c *Client) close() {
	c.closeMu.Do(func() {
		c.cancel()
		close(c.done)
		c.conn.Close()
	})
}

// readPump reads client frames until the connection fails
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// the page starts on the reset board
	c.sendSlots(TypeStatus)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warnf("WebSocket read error [%s]: %v", c.id, err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid message format from %s: %v", c.id, err)
			c.sendError("Invalid JSON format")
			continue
		}

		switch msg.Type {
		case TypeLookup:
			c.startLookup(msg.Username)
		case TypeInput:
			c.renderer.ClearStatus()
			c.sendSlots(TypeStatus)
		default:
			c.sendError("Unknown message type: " + msg.Type)
		}
	}
}

// startLookup runs the lookup off the read loop so a second trigger can
// arrive, and be dropped, while the first is in flight.
func (c *Client) startLookup(username string) {
	if !c.lookup.InFlight() {
		c.enqueue(&Message{Type: TypeLoading, Username: username, Timestamp: time.Now()})
	}

	c.hub.wg.Add(1)
	go func() {
		defer c.hub.wg.Done()
		res, ok := c.lookup.Run(c.ctx, username)
		if !ok {
			logger.WebSocket(c.id, "lookup dropped")
			return
		}
		if utils.IsContextError(c.ctx.Err()) {
			return
		}
		core.Present(res, c.renderer)
		if res.OK() {
			c.sendSlots(TypeRender)
		} else {
			c.sendSlots(TypeStatus)
		}
	}()
}

// writePump owns every write to the connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message := <-c.send:
			data, err := json.Marshal(message)
			if err != nil {
				logger.Errorf("Failed to marshal message: %v", err)
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) sendSlots(typ string) {
	slots := c.board.Snapshot()
	c.enqueue(&Message{Type: typ, Slots: &slots, Message: slots.Status, Timestamp: time.Now()})
}

func (c *Client) sendError(message string) {
	c.enqueue(&Message{Type: TypeError, Message: message, Timestamp: time.Now()})
}

// enqueue never blocks; a full buffer drops the frame
func (c *Client) enqueue(msg *Message) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- msg:
	case <-c.done:
	default:
		logger.Warnf("Client %s send buffer full, dropping %s frame", c.id, msg.Type)
	}
}
