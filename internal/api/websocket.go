package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"ghost-reel/internal/replay"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 100

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 10

	// progressInterval throttles progress broadcasts. The step loop emits
	// progress every tick; viewers only need scrub-bar granularity.
	progressInterval = 100 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}
		log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// WebSocketHub manages all WebSocket connections and pushes replay
// lifecycle and effect events to viewers. It implements replay.Notifier
// and replay.EffectSink, so the session and the ghost cast can feed it
// directly.
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	wsLimiter *WebSocketRateLimiter

	progressMu   sync.Mutex
	lastProgress time.Time
}

// NewWebSocketHub creates a new hub with connection limiting
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		wsLimiter:  NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
	}
}

// Run starts the hub
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			h.mu.Unlock()

			count := h.ClientCount()
			log.Printf("📱 Viewer connected from %s (%d total)", client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				h.wsLimiter.Release(client.ip)
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

			count := h.ClientCount()
			log.Printf("📱 Viewer disconnected (%d remaining)", count)
			UpdateWSConnections(count)

		case message := <-h.broadcast:
			h.mu.RLock()
			var dead []*websocket.Conn
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					dead = append(dead, conn)
				}
			}
			h.mu.RUnlock()

			for _, conn := range dead {
				h.mu.Lock()
				if client, ok := h.clients[conn]; ok {
					h.wsLimiter.Release(client.ip)
					delete(h.clients, conn)
					conn.Close()
				}
				h.mu.Unlock()
			}
			IncrementWSMessages()
		}
	}
}

// Broadcast sends a message to all connected clients
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	msg := map[string]interface{}{
		"event": event,
		"data":  data,
	}

	jsonBytes, err := json.Marshal(msg)
	if err != nil {
		return
	}

	select {
	case h.broadcast <- jsonBytes:
	default:
		// Channel full, skip (backpressure)
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// replay.Notifier surface.

// PlaybackStarted announces a new playback pass.
func (h *WebSocketHub) PlaybackStarted(duration float64) {
	h.Broadcast("replay:started", map[string]interface{}{
		"duration": duration,
	})
}

// PlaybackEnded announces teardown.
func (h *WebSocketHub) PlaybackEnded() {
	h.Broadcast("replay:ended", nil)
}

// Progress pushes the playhead, throttled to progressInterval.
func (h *WebSocketHub) Progress(current, total float64) {
	h.progressMu.Lock()
	now := time.Now()
	if now.Sub(h.lastProgress) < progressInterval {
		h.progressMu.Unlock()
		return
	}
	h.lastProgress = now
	h.progressMu.Unlock()

	h.Broadcast("replay:progress", map[string]interface{}{
		"time":     current,
		"duration": total,
	})
}

// replay.EffectSink surface. Viewers render their own overlays; the hub
// just relays what happened and where.

// PlaySound relays a sound request.
func (h *WebSocketHub) PlaySound(kind replay.SoundKind, x, y float64) {
	h.Broadcast("replay:sound", map[string]interface{}{
		"kind": kind.String(),
		"x":    x,
		"y":    y,
	})
}

// SpawnEffect relays a visual effect request.
func (h *WebSocketHub) SpawnEffect(kind replay.EffectKind, x, y, rotation float64) {
	h.Broadcast("replay:effect", map[string]interface{}{
		"kind":     kind.String(),
		"x":        x,
		"y":        y,
		"rotation": rotation,
	})
}

// HandleWebSocket handles incoming WebSocket connections with DoS protection
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if h.ClientCount() >= MaxWSConnectionsTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached")
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Allow(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.wsLimiter.Release(ip) // Release the slot we reserved
		return
	}

	client := &wsClient{conn: conn, ip: ip}
	h.register <- client

	// Drain client messages; the control surface is HTTP, so inbound
	// traffic is only pings and accidents.
	go func() {
		defer func() {
			h.unregister <- conn
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}
