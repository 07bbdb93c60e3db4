package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/420btc/mymac/internal/infrastructure/store"
	"github.com/420btc/mymac/internal/shared/types"
)

const collection = "settings"

// Setting represents a desktop preference.
type Setting struct {
	Key         string      `json:"key"`
	Value       interface{} `json:"value"`
	Type        string      `json:"type"` // "string", "number", "boolean", "json"
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Default     interface{} `json:"default"`
}

// Provider implements desktop preference management.
type Provider struct {
	store *store.Store
	cache sync.Map // key -> *Setting
}

// NewProvider creates a settings provider. Persisted values overlay the
// defaults on startup.
func NewProvider(st *store.Store) *Provider {
	p := &Provider{store: st}
	p.initializeDefaults()
	p.loadPersisted()
	return p
}

// Definition returns service metadata.
func (s *Provider) Definition() types.Service {
	return types.Service{
		ID:          "settings",
		Name:        "Settings Service",
		Description: "Desktop preferences and configuration management",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"get",
			"set",
			"list",
			"reset",
			"categories",
		},
		Tools: []types.Tool{
			{
				ID:          "settings.get",
				Name:        "Get Setting",
				Description: "Get a preference value",
				Parameters: []types.Parameter{
					{Name: "key", Type: "string", Description: "Setting key", Required: true},
				},
				Returns: "Setting",
			},
			{
				ID:          "settings.set",
				Name:        "Set Setting",
				Description: "Set a preference value",
				Parameters: []types.Parameter{
					{Name: "key", Type: "string", Description: "Setting key", Required: true},
					{Name: "value", Type: "any", Description: "Setting value", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "settings.list",
				Name:        "List Settings",
				Description: "List all settings optionally filtered by category",
				Parameters: []types.Parameter{
					{Name: "category", Type: "string", Description: "Category filter (optional)", Required: false},
				},
				Returns: "array",
			},
			{
				ID:          "settings.reset",
				Name:        "Reset Setting",
				Description: "Reset a setting to its default value",
				Parameters: []types.Parameter{
					{Name: "key", Type: "string", Description: "Setting key", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "settings.categories",
				Name:        "List Categories",
				Description: "Get all setting categories",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
		},
	}
}

// Execute runs a settings operation.
func (s *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "settings.get":
		return s.get(params)
	case "settings.set":
		return s.set(params)
	case "settings.list":
		return s.list(params)
	case "settings.reset":
		return s.reset(params)
	case "settings.categories":
		return s.categories()
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (s *Provider) initializeDefaults() {
	defaults := []*Setting{
		{Key: "appearance.mode", Value: "light", Type: "string", Category: "appearance", Description: "Light or dark appearance", Default: "light"},
		{Key: "appearance.accent", Value: "blue", Type: "string", Category: "appearance", Description: "Accent color", Default: "blue"},
		{Key: "dock.autohide", Value: false, Type: "boolean", Category: "dock", Description: "Hide the dock until hovered", Default: false},
		{Key: "dock.magnification", Value: true, Type: "boolean", Category: "dock", Description: "Magnify icons under the pointer", Default: true},
		{Key: "desktop.show_widgets", Value: true, Type: "boolean", Category: "desktop", Description: "Show desktop widgets", Default: true},
		{Key: "sound.volume", Value: 0.6, Type: "number", Category: "sound", Description: "Output volume", Default: 0.6},
	}
	for _, setting := range defaults {
		s.cache.Store(setting.Key, setting)
	}
}

// loadPersisted overlays saved values on the defaults.
func (s *Provider) loadPersisted() {
	if s.store == nil {
		return
	}
	keys, err := s.store.List(collection)
	if err != nil {
		return
	}
	for _, docID := range keys {
		var setting Setting
		if err := s.store.Get(collection, docID, &setting); err == nil && setting.Key != "" {
			if existing, ok := s.cache.Load(setting.Key); ok {
				// Keep the default from the built-in definition.
				setting.Default = existing.(*Setting).Default
				setting.Description = existing.(*Setting).Description
			}
			s.cache.Store(setting.Key, &setting)
		}
	}
}

func (s *Provider) get(params map[string]interface{}) (*types.Result, error) {
	key, ok := params["key"].(string)
	if !ok || key == "" {
		return failure("key parameter required")
	}

	cached, ok := s.cache.Load(key)
	if !ok {
		return failure(fmt.Sprintf("setting not found: %s", key))
	}
	setting := cached.(*Setting)

	return success(map[string]interface{}{
		"key":      setting.Key,
		"value":    setting.Value,
		"type":     setting.Type,
		"category": setting.Category,
		"default":  setting.Default,
	})
}

func (s *Provider) set(params map[string]interface{}) (*types.Result, error) {
	key, ok := params["key"].(string)
	if !ok || key == "" {
		return failure("key parameter required")
	}
	value, ok := params["value"]
	if !ok {
		return failure("value parameter required")
	}

	var setting *Setting
	if cached, ok := s.cache.Load(key); ok {
		existing := *cached.(*Setting)
		existing.Value = value
		setting = &existing
	} else {
		setting = &Setting{
			Key:      key,
			Value:    value,
			Type:     inferType(value),
			Category: "custom",
			Default:  value,
		}
	}

	if s.store != nil {
		if err := s.store.Put(collection, storeID(key), setting); err != nil {
			return failure(fmt.Sprintf("failed to persist setting: %v", err))
		}
	}
	s.cache.Store(key, setting)

	return success(map[string]interface{}{"set": true, "key": key})
}

func (s *Provider) list(params map[string]interface{}) (*types.Result, error) {
	var category *string
	if c, ok := params["category"].(string); ok && c != "" {
		category = &c
	}

	var settings []*Setting
	s.cache.Range(func(_, value interface{}) bool {
		setting := value.(*Setting)
		if category == nil || setting.Category == *category {
			settings = append(settings, setting)
		}
		return true
	})

	return success(map[string]interface{}{
		"settings": settings,
		"count":    len(settings),
	})
}

func (s *Provider) reset(params map[string]interface{}) (*types.Result, error) {
	key, ok := params["key"].(string)
	if !ok || key == "" {
		return failure("key parameter required")
	}

	cached, ok := s.cache.Load(key)
	if !ok {
		return failure(fmt.Sprintf("setting not found: %s", key))
	}

	setting := *cached.(*Setting)
	setting.Value = setting.Default
	s.cache.Store(key, &setting)

	if s.store != nil {
		if err := s.store.Delete(collection, storeID(key)); err != nil {
			return failure(fmt.Sprintf("failed to reset setting: %v", err))
		}
	}

	return success(map[string]interface{}{"reset": true, "key": key, "value": setting.Value})
}

func (s *Provider) categories() (*types.Result, error) {
	seen := make(map[string]bool)
	var categories []string
	s.cache.Range(func(_, value interface{}) bool {
		category := value.(*Setting).Category
		if !seen[category] {
			seen[category] = true
			categories = append(categories, category)
		}
		return true
	})

	return success(map[string]interface{}{"categories": categories})
}

// CaptureState implements the session state hook.
func (s *Provider) CaptureState() map[string]interface{} {
	state := make(map[string]interface{})
	s.cache.Range(func(key, value interface{}) bool {
		state[key.(string)] = value.(*Setting).Value
		return true
	})
	return state
}

// RestoreState implements the session state hook.
func (s *Provider) RestoreState(blob map[string]interface{}) {
	for key, value := range blob {
		s.set(map[string]interface{}{"key": key, "value": value})
	}
}

// storeID flattens a dotted key into a store document id.
func storeID(key string) string {
	out := make([]byte, len(key))
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			out[i] = '-'
		} else {
			out[i] = key[i]
		}
	}
	return string(out)
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &message}, nil
}

func inferType(value interface{}) string {
	switch value.(type) {
	case string:
		return "string"
	case float64, int:
		return "number"
	case bool:
		return "boolean"
	default:
		return "json"
	}
}
