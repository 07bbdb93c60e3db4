// Package ws streams the desktop over a WebSocket: dock frames out,
// pointer input and window operations in.
package ws

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/420btc/mymac/internal/domain/desktop"
	"github.com/420btc/mymac/internal/infrastructure/logging"
	"github.com/420btc/mymac/internal/infrastructure/monitoring"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// outboundBuffer bounds per-connection queued payloads before drops.
const outboundBuffer = 64

// Handler manages WebSocket connections and fans dock frames and window
// events out to subscribers.
type Handler struct {
	desktop *desktop.Desktop
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu    sync.RWMutex
	conns map[string]*connection
}

// connection is one client. Writes go through out so they are serialized
// by a single writer goroutine.
type connection struct {
	id   string
	sock *websocket.Conn
	out  chan []byte

	mu         sync.Mutex
	subscribed bool
}

// NewHandler creates a WebSocket handler over the desktop.
func NewHandler(d *desktop.Desktop, logger *logging.Logger, metrics *monitoring.Metrics) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		desktop: d,
		logger:  logger.Component("ws"),
		metrics: metrics,
		conns:   make(map[string]*connection),
	}
}

// Run consumes dock frames and desktop events, broadcasting them to
// subscribed connections until the context is cancelled.
func (h *Handler) Run(ctx context.Context) {
	subID, events := h.desktop.Subscribe()
	defer h.desktop.Unsubscribe(subID)

	frames := h.desktop.Dock().Frames()

	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-frames:
			payload, err := sonic.Marshal(map[string]interface{}{
				"type":  "dock_frame",
				"frame": frame,
			})
			if err != nil {
				continue
			}
			h.broadcast("dock_frame", payload)
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := sonic.Marshal(windowEvent{
				Type:   "window_event",
				Event:  event.Type,
				Window: event.Window,
			})
			if err != nil {
				continue
			}
			h.broadcast("window_event", payload)
		}
	}
}

func (h *Handler) broadcast(msgType string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.conns {
		conn.mu.Lock()
		subscribed := conn.subscribed
		conn.mu.Unlock()
		if !subscribed {
			continue
		}
		select {
		case conn.out <- payload:
			if h.metrics != nil {
				h.metrics.RecordWSMessage("out", msgType)
			}
		default:
			// Slow consumer; drop the frame rather than stall the hub.
		}
	}
}

// HandleConnection upgrades the request and serves the stream protocol.
func (h *Handler) HandleConnection(c *gin.Context) {
	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	conn := &connection{
		id:   uuid.NewString(),
		sock: sock,
		out:  make(chan []byte, outboundBuffer),
	}

	h.mu.Lock()
	h.conns[conn.id] = conn
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}
	h.logger.Info("Client connected", zap.String("conn_id", conn.id))

	done := make(chan struct{})
	go h.writeLoop(conn, done)

	h.sendJSON(conn, welcome{Type: "welcome", ConnID: conn.id, Server: "mymac"})
	h.sendState(conn)

	h.readLoop(conn)

	h.mu.Lock()
	delete(h.conns, conn.id)
	h.mu.Unlock()
	close(done)
	sock.Close()
	if h.metrics != nil {
		h.metrics.DecWSConnections()
	}
	h.logger.Info("Client disconnected", zap.String("conn_id", conn.id))
}

func (h *Handler) writeLoop(conn *connection, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-conn.out:
			if err := conn.sock.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

func (h *Handler) readLoop(conn *connection) {
	for {
		_, raw, err := conn.sock.ReadMessage()
		if err != nil {
			return
		}

		var msg Message
		if err := sonic.Unmarshal(raw, &msg); err != nil {
			h.sendError(conn, "malformed message")
			continue
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		switch msg.Type {
		case "pointer":
			if msg.Offset == nil {
				h.sendError(conn, "pointer requires offset")
				continue
			}
			h.desktop.Dock().SetPointer(*msg.Offset)
			if h.metrics != nil {
				h.metrics.RecordDockPointer()
			}
		case "pointer_leave":
			h.desktop.Dock().ClearPointer()
		case "dock_click":
			h.handleDockClick(conn, msg)
		case "window_op":
			h.handleWindowOp(conn, msg)
		case "subscribe":
			conn.mu.Lock()
			conn.subscribed = true
			conn.mu.Unlock()
			h.sendState(conn)
		case "ping":
			h.sendJSON(conn, map[string]interface{}{
				"type":      "pong",
				"timestamp": time.Now().Unix(),
			})
		default:
			h.sendError(conn, fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

func (h *Handler) handleDockClick(conn *connection, msg Message) {
	if msg.AppID == "" {
		h.sendError(conn, "dock_click requires app_id")
		return
	}

	win, err := h.desktop.HandleDockClick(msg.AppID)
	if err != nil {
		h.sendError(conn, err.Error())
		return
	}

	// Subscribers also hear this through the event fan-out; the direct
	// reply covers clients that never subscribed.
	h.sendJSON(conn, windowEvent{Type: "window_event", Event: "dock_click", Window: win})
}

func (h *Handler) handleWindowOp(conn *connection, msg Message) {
	if msg.AppID == "" || msg.Op == "" {
		h.sendError(conn, "window_op requires app_id and op")
		return
	}

	windows := h.desktop.Windows()
	var err error
	switch msg.Op {
	case "open":
		h.desktop.HandleDockClick(msg.AppID)
	case "close":
		err = windows.Close(msg.AppID)
	case "minimize":
		err = windows.Minimize(msg.AppID)
	case "restore":
		err = windows.Restore(msg.AppID)
	case "focus":
		err = windows.Focus(msg.AppID)
	case "move":
		x, y, ok := intPair(msg.Params, "x", "y")
		if !ok {
			h.sendError(conn, "move requires x and y")
			return
		}
		err = windows.Move(msg.AppID, x, y)
	case "resize":
		w, ht, ok := intPair(msg.Params, "width", "height")
		if !ok {
			h.sendError(conn, "resize requires width and height")
			return
		}
		err = windows.Resize(msg.AppID, w, ht)
	default:
		h.sendError(conn, fmt.Sprintf("unknown window op: %s", msg.Op))
		return
	}

	if err != nil {
		h.sendError(conn, err.Error())
	}
}

// sendState pushes the full desktop snapshot to one connection.
func (h *Handler) sendState(conn *connection) {
	h.sendJSON(conn, map[string]interface{}{
		"type":  "desktop_state",
		"state": h.desktop.Snapshot(),
	})
}

func (h *Handler) sendJSON(conn *connection, v interface{}) {
	payload, err := sonic.Marshal(v)
	if err != nil {
		h.logger.Warn("Encode failed", zap.Error(err))
		return
	}
	select {
	case conn.out <- payload:
	default:
	}
}

func (h *Handler) sendError(conn *connection, message string) {
	h.sendJSON(conn, errorMsg{
		Type:      "error",
		Message:   message,
		Timestamp: time.Now().Unix(),
	})
}

func intPair(params map[string]interface{}, aKey, bKey string) (int, int, bool) {
	a, okA := params[aKey].(float64)
	b, okB := params[bKey].(float64)
	if !okA || !okB {
		return 0, 0, false
	}
	return int(a), int(b), true
}
