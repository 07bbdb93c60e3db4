package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/420btc/mymac/internal/infrastructure/store"
	"github.com/420btc/mymac/internal/shared/types"
)

const (
	collection = "wallpaper"
	currentDoc = "current"
)

// Wallpaper represents one desktop background.
type Wallpaper struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description,omitempty"`
	Dynamic     bool   `json:"dynamic"` // shifts with appearance mode
}

// Selection is the persisted wallpaper choice.
type Selection struct {
	WallpaperID string `json:"wallpaper_id"`
	Appearance  string `json:"appearance"` // "light" or "dark"
	Accent      string `json:"accent"`
}

// Provider implements the wallpaper catalog and current selection.
type Provider struct {
	store      *store.Store
	wallpapers sync.Map // id -> *Wallpaper

	mu      sync.RWMutex
	current Selection
}

// NewProvider creates a wallpaper provider.
func NewProvider(st *store.Store) *Provider {
	p := &Provider{
		store:   st,
		current: Selection{WallpaperID: "sequoia", Appearance: "light", Accent: "blue"},
	}
	p.initializeDefaults()

	if st != nil {
		var saved Selection
		if err := st.Get(collection, currentDoc, &saved); err == nil && saved.WallpaperID != "" {
			p.current = saved
		}
	}
	return p
}

func (w *Provider) initializeDefaults() {
	defaults := []*Wallpaper{
		{ID: "sequoia", Name: "Sequoia", Image: "wallpapers/sequoia.jpg", Dynamic: true},
		{ID: "sonoma", Name: "Sonoma", Image: "wallpapers/sonoma.jpg", Dynamic: true},
		{ID: "ventura", Name: "Ventura", Image: "wallpapers/ventura.jpg", Dynamic: false},
		{ID: "monterey", Name: "Monterey", Image: "wallpapers/monterey.jpg", Dynamic: false},
		{ID: "graphite", Name: "Graphite", Image: "wallpapers/graphite.jpg", Description: "Solid color", Dynamic: false},
	}
	for _, wallpaper := range defaults {
		w.wallpapers.Store(wallpaper.ID, wallpaper)
	}
}

// Definition returns service metadata.
func (w *Provider) Definition() types.Service {
	return types.Service{
		ID:          "wallpaper",
		Name:        "Wallpaper Service",
		Description: "Wallpaper catalog, appearance and accent color",
		Category:    types.CategoryAppearance,
		Capabilities: []string{
			"list",
			"current",
			"set",
			"appearance",
			"accent",
		},
		Tools: []types.Tool{
			{
				ID:          "wallpaper.list",
				Name:        "List Wallpapers",
				Description: "List available wallpapers",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
			{
				ID:          "wallpaper.current",
				Name:        "Current Selection",
				Description: "Get the active wallpaper, appearance and accent",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "wallpaper.set",
				Name:        "Set Wallpaper",
				Description: "Select a wallpaper by id",
				Parameters: []types.Parameter{
					{Name: "wallpaper_id", Type: "string", Description: "Wallpaper to select", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "wallpaper.appearance",
				Name:        "Set Appearance",
				Description: "Switch between light and dark appearance",
				Parameters: []types.Parameter{
					{Name: "mode", Type: "string", Description: "light or dark", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "wallpaper.accent",
				Name:        "Set Accent Color",
				Description: "Set the system accent color",
				Parameters: []types.Parameter{
					{Name: "color", Type: "string", Description: "Accent color name", Required: true},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs a wallpaper operation.
func (w *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "wallpaper.list":
		return w.list()
	case "wallpaper.current":
		return w.currentResult()
	case "wallpaper.set":
		return w.set(params)
	case "wallpaper.appearance":
		return w.appearance(params)
	case "wallpaper.accent":
		return w.accent(params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (w *Provider) list() (*types.Result, error) {
	var wallpapers []*Wallpaper
	w.wallpapers.Range(func(_, value interface{}) bool {
		wallpapers = append(wallpapers, value.(*Wallpaper))
		return true
	})

	return success(map[string]interface{}{
		"wallpapers": wallpapers,
		"count":      len(wallpapers),
	})
}

func (w *Provider) currentResult() (*types.Result, error) {
	w.mu.RLock()
	current := w.current
	w.mu.RUnlock()

	data := map[string]interface{}{
		"wallpaper_id": current.WallpaperID,
		"appearance":   current.Appearance,
		"accent":       current.Accent,
	}
	if cached, ok := w.wallpapers.Load(current.WallpaperID); ok {
		data["wallpaper"] = cached.(*Wallpaper)
	}
	return success(data)
}

func (w *Provider) set(params map[string]interface{}) (*types.Result, error) {
	wallpaperID, ok := params["wallpaper_id"].(string)
	if !ok || wallpaperID == "" {
		return failure("wallpaper_id parameter required")
	}
	if _, ok := w.wallpapers.Load(wallpaperID); !ok {
		return failure(fmt.Sprintf("wallpaper not found: %s", wallpaperID))
	}

	if err := w.update(func(sel *Selection) { sel.WallpaperID = wallpaperID }); err != nil {
		return failure(err.Error())
	}
	return w.currentResult()
}

func (w *Provider) appearance(params map[string]interface{}) (*types.Result, error) {
	mode, ok := params["mode"].(string)
	if !ok || (mode != "light" && mode != "dark") {
		return failure("mode must be light or dark")
	}

	if err := w.update(func(sel *Selection) { sel.Appearance = mode }); err != nil {
		return failure(err.Error())
	}
	return w.currentResult()
}

func (w *Provider) accent(params map[string]interface{}) (*types.Result, error) {
	color, ok := params["color"].(string)
	if !ok || color == "" {
		return failure("color parameter required")
	}

	if err := w.update(func(sel *Selection) { sel.Accent = color }); err != nil {
		return failure(err.Error())
	}
	return w.currentResult()
}

// update mutates the selection and persists it.
func (w *Provider) update(mutate func(*Selection)) error {
	w.mu.Lock()
	mutate(&w.current)
	current := w.current
	w.mu.Unlock()

	if w.store != nil {
		if err := w.store.Put(collection, currentDoc, current); err != nil {
			return errors.New("failed to persist wallpaper selection")
		}
	}
	return nil
}

// CaptureState implements the session state hook.
func (w *Provider) CaptureState() map[string]interface{} {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return map[string]interface{}{
		"wallpaper_id": w.current.WallpaperID,
		"appearance":   w.current.Appearance,
		"accent":       w.current.Accent,
	}
}

// RestoreState implements the session state hook.
func (w *Provider) RestoreState(blob map[string]interface{}) {
	w.update(func(sel *Selection) {
		if v, ok := blob["wallpaper_id"].(string); ok && v != "" {
			if _, known := w.wallpapers.Load(v); known {
				sel.WallpaperID = v
			}
		}
		if v, ok := blob["appearance"].(string); ok && (v == "light" || v == "dark") {
			sel.Appearance = v
		}
		if v, ok := blob["accent"].(string); ok && v != "" {
			sel.Accent = v
		}
	})
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &message}, nil
}
