package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"kanband/internal/events"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
)

// Hub bridges the in-process event bus to WebSocket clients. Each
// connection subscribes to one project (or all projects with 0) and
// receives board change events as JSON.
type Hub struct {
	bus      *events.Bus
	upgrader websocket.Upgrader
	metrics  *Metrics
}

// NewHub creates a hub over the given bus.
func NewHub(bus *events.Bus) *Hub {
	return &Hub{
		bus: bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin policy is enforced by the CORS layer
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		metrics: NewMetrics(),
	}
}

// Snapshot exposes hub counters for the health endpoint.
func (h *Hub) Snapshot() MetricsSnapshot {
	return h.metrics.Snapshot()
}

// ServeWS upgrades the connection and pumps matching events to it
// until the client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, projectID int) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	ch, cancel := h.bus.Subscribe(projectID)
	h.metrics.ConnectedClients.Add(1)

	done := make(chan struct{})

	// Read pump: we expect no client messages, but reading drives
	// pong handling and close detection
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("websocket read error", "error", err)
				}
				return
			}
		}
	}()

	// Write pump
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer func() {
			ticker.Stop()
			cancel()
			conn.Close()
			h.metrics.ConnectedClients.Add(-1)
		}()
		for {
			select {
			case event, ok := <-ch:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					return
				}
				h.metrics.EventsSent.Add(1)
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()
}

// handleWebSocket authenticates the upgrade request (token query
// parameter; browsers cannot set headers on WebSocket requests) and
// hands the connection to the hub.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	if _, err := s.authSvc.VerifyToken(token); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	projectID := 0
	if v := r.URL.Query().Get("projectId"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid projectId", http.StatusBadRequest)
			return
		}
		projectID = parsed
	}

	s.hub.ServeWS(w, r, projectID)
}
