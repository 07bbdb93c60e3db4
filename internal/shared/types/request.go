package types

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params" binding:"required"`
	AppID  *string                `json:"app_id,omitempty"`
}

// DiscoverRequest represents a service discovery request
type DiscoverRequest struct {
	Query    string    `json:"query"`
	Category *Category `json:"category,omitempty"`
}

// MoveRequest updates a window's position
type MoveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ResizeRequest updates a window's dimensions
type ResizeRequest struct {
	Width  int `json:"width" binding:"required"`
	Height int `json:"height" binding:"required"`
}

// SaveSessionRequest captures the current desktop under a name
type SaveSessionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}
