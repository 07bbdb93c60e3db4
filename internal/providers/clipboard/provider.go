package clipboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/420btc/mymac/internal/shared/types"
)

// Entry is one clipboard item.
type Entry struct {
	ID       uint64    `json:"id"`
	Data     string    `json:"data"`
	Format   string    `json:"format"`
	CopiedAt time.Time `json:"copied_at"`
}

// Provider implements a process-local clipboard with bounded history.
type Provider struct {
	mu      sync.RWMutex
	entries []Entry // newest last
	nextID  uint64
	limit   int

	copies int
	pastes int
}

// DefaultHistoryLimit bounds the history ring.
const DefaultHistoryLimit = 50

// NewProvider creates a clipboard provider.
func NewProvider() *Provider {
	return &Provider{limit: DefaultHistoryLimit}
}

// Definition returns service metadata.
func (c *Provider) Definition() types.Service {
	return types.Service{
		ID:          "clipboard",
		Name:        "Clipboard Service",
		Description: "Multi-format clipboard with bounded history",
		Category:    types.CategoryUtility,
		Capabilities: []string{
			"copy",
			"paste",
			"history",
			"multi_format",
			"statistics",
		},
		Tools: c.getTools(),
	}
}

func (c *Provider) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "clipboard.copy",
			Name:        "Copy to Clipboard",
			Description: "Copy data to clipboard with format specification",
			Parameters: []types.Parameter{
				{Name: "data", Type: "string", Description: "Data to copy", Required: true},
				{Name: "format", Type: "string", Description: "Data format (text, html, image/*)", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "clipboard.paste",
			Name:        "Paste from Clipboard",
			Description: "Retrieve the most recent clipboard entry",
			Parameters:  []types.Parameter{},
			Returns:     "object",
		},
		{
			ID:          "clipboard.history",
			Name:        "Get Clipboard History",
			Description: "Retrieve clipboard history entries, newest first",
			Parameters: []types.Parameter{
				{Name: "limit", Type: "number", Description: "Maximum number of entries", Required: false},
			},
			Returns: "array",
		},
		{
			ID:          "clipboard.get_entry",
			Name:        "Get Clipboard Entry",
			Description: "Retrieve a specific clipboard entry by ID",
			Parameters: []types.Parameter{
				{Name: "entry_id", Type: "number", Description: "Entry ID to retrieve", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "clipboard.clear",
			Name:        "Clear Clipboard",
			Description: "Clear clipboard history",
			Parameters:  []types.Parameter{},
			Returns:     "boolean",
		},
		{
			ID:          "clipboard.stats",
			Name:        "Get Clipboard Statistics",
			Description: "Retrieve clipboard usage statistics",
			Parameters:  []types.Parameter{},
			Returns:     "object",
		},
	}
}

// Execute runs a clipboard operation.
func (c *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "clipboard.copy":
		return c.copy(params)
	case "clipboard.paste":
		return c.paste()
	case "clipboard.history":
		return c.history(params)
	case "clipboard.get_entry":
		return c.getEntry(params)
	case "clipboard.clear":
		return c.clear()
	case "clipboard.stats":
		return c.stats()
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (c *Provider) copy(params map[string]interface{}) (*types.Result, error) {
	data, ok := params["data"].(string)
	if !ok || data == "" {
		return failure("data parameter required")
	}

	format := "text"
	if f, ok := params["format"].(string); ok && f != "" {
		format = f
	}

	c.mu.Lock()
	c.nextID++
	entry := Entry{
		ID:       c.nextID,
		Data:     data,
		Format:   format,
		CopiedAt: time.Now(),
	}
	c.entries = append(c.entries, entry)
	if len(c.entries) > c.limit {
		c.entries = c.entries[len(c.entries)-c.limit:]
	}
	c.copies++
	c.mu.Unlock()

	return success(map[string]interface{}{
		"copied":   true,
		"entry_id": entry.ID,
		"format":   format,
	})
}

func (c *Provider) paste() (*types.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) == 0 {
		return failure("clipboard is empty")
	}
	entry := c.entries[len(c.entries)-1]
	c.pastes++

	return success(map[string]interface{}{
		"entry_id":  entry.ID,
		"data":      entry.Data,
		"format":    entry.Format,
		"copied_at": entry.CopiedAt,
	})
}

func (c *Provider) history(params map[string]interface{}) (*types.Result, error) {
	limit := c.limit
	if l, ok := params["limit"].(float64); ok && int(l) > 0 {
		limit = int(l)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	n := len(c.entries)
	if limit > n {
		limit = n
	}

	entries := make([]Entry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		entries = append(entries, c.entries[i])
	}

	return success(map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

func (c *Provider) getEntry(params map[string]interface{}) (*types.Result, error) {
	entryID, ok := params["entry_id"].(float64)
	if !ok {
		return failure("entry_id parameter required")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, entry := range c.entries {
		if entry.ID == uint64(entryID) {
			return success(map[string]interface{}{
				"entry_id":  entry.ID,
				"data":      entry.Data,
				"format":    entry.Format,
				"copied_at": entry.CopiedAt,
			})
		}
	}
	return failure(fmt.Sprintf("entry %d not found", uint64(entryID)))
}

func (c *Provider) clear() (*types.Result, error) {
	c.mu.Lock()
	c.entries = nil
	c.mu.Unlock()

	return success(map[string]interface{}{"cleared": true})
}

func (c *Provider) stats() (*types.Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return success(map[string]interface{}{
		"entries":       len(c.entries),
		"history_limit": c.limit,
		"total_copies":  c.copies,
		"total_pastes":  c.pastes,
	})
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &message}, nil
}
