package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tessro/tunewave/internal/core"
)

const (
	defaultStreamInterval = time.Second
	writeWait             = 5 * time.Second
	sendBuffer            = 8
)

var upgrader = websocket.Upgrader{
	// The service binds to localhost by default and carries no credentials.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StatusFunc produces one status document.
type StatusFunc func(ctx context.Context) core.Status

// Hub pushes status documents to websocket subscribers. It only polls the
// renderer while at least one subscriber is connected.
type Hub struct {
	status   StatusFunc
	interval time.Duration
	log      zerolog.Logger

	clients    map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub. Call Run to start it.
func NewHub(status StatusFunc, interval time.Duration, log zerolog.Logger) *Hub {
	if interval <= 0 {
		interval = defaultStreamInterval
	}
	return &Hub{
		status:     status,
		interval:   interval,
		log:        log,
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
	}
}

// Run owns the subscriber set until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
	}
	defer stopTicker()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.deliver(c, h.snapshot(ctx))
			if ticker == nil {
				ticker = time.NewTicker(h.interval)
				tick = ticker.C
			}
			h.log.Debug().Int("subscribers", len(h.clients)).Msg("status subscriber joined")

		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
			}
			if len(h.clients) == 0 {
				stopTicker()
			}

		case <-tick:
			msg := h.snapshot(ctx)
			for c := range h.clients {
				h.deliver(c, msg)
			}
			if len(h.clients) == 0 {
				stopTicker()
			}
		}
	}
}

func (h *Hub) snapshot(ctx context.Context) []byte {
	data, err := json.Marshal(h.status(ctx))
	if err != nil {
		h.log.Warn().Err(err).Msg("encode status")
		return nil
	}
	return data
}

// deliver drops subscribers that are too slow to keep up.
func (h *Hub) deliver(c *wsClient, msg []byte) {
	if msg == nil {
		return
	}
	select {
	case c.send <- msg:
	default:
		h.drop(c)
	}
}

func (h *Hub) drop(c *wsClient) {
	delete(h.clients, c)
	close(c.send)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("ws upgrade")
		return
	}

	c := &wsClient{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	select {
	case s.hub.register <- c:
	case <-s.hub.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump discards inbound messages and unregisters on disconnect.
func (c *wsClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
