package types

// Category groups providers for catalog filtering and discovery
type Category string

const (
	CategoryFiles      Category = "files"
	CategoryUtility    Category = "utility"
	CategorySystem     Category = "system"
	CategoryWeb        Category = "web"
	CategoryAppearance Category = "appearance"
	CategoryAccount    Category = "account"
	CategoryStorage    Category = "storage"
)

// Service describes a provider: what it is and which tools it exposes.
// Returned verbatim from GET /services.
type Service struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Category     Category    `json:"category"`
	Capabilities []string    `json:"capabilities"`
	Tools        []Tool      `json:"tools"`
	DataModels   []DataModel `json:"data_models,omitempty"`
}

// Tool is one callable operation. Its ID is addressed as "service.tool"
// in execute requests.
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter declares one tool argument
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// DataModel names a structure a provider reads or writes
type DataModel struct {
	Name   string            `json:"name"`
	Fields map[string]string `json:"fields"`
}

// Context carries the caller's identity into a tool call. All fields are
// optional; providers that scope state per app or per user read them.
type Context struct {
	AppID     *string `json:"app_id,omitempty"`
	WindowID  *string `json:"window_id,omitempty"`
	UserID    *string `json:"user_id,omitempty"`
	SessionID *string `json:"session_id,omitempty"`
}

// Result is the outcome of one tool call. Expected failures (bad params,
// missing files) set Success=false with Error; transport problems use the
// Go error instead.
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *string                `json:"error,omitempty"`
}
