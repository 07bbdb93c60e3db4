package ws

import "github.com/420btc/mymac/internal/shared/types"

// Message is the client-to-server envelope.
type Message struct {
	Type string `json:"type"`

	// pointer
	Offset *float64 `json:"offset,omitempty"`

	// dock_click and window_op
	AppID string `json:"app_id,omitempty"`

	// window_op: open, close, minimize, restore, focus, move, resize
	Op     string                 `json:"op,omitempty"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// welcome greets a new connection.
type welcome struct {
	Type   string `json:"type"`
	ConnID string `json:"conn_id"`
	Server string `json:"server"`
}

// errorMsg reports a failed operation.
type errorMsg struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// windowEvent wraps a desktop window event for the wire.
type windowEvent struct {
	Type   string       `json:"type"`
	Event  string       `json:"event"`
	Window types.Window `json:"window"`
}
