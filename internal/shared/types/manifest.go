package types

import "time"

// Manifest describes an installable application in the catalog.
//
// The dock builds its icon row from these entries; the window manager
// consults DefaultSize and Singleton when a window is first opened.
type Manifest struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Category    string     `json:"category"`
	Version     string     `json:"version"`
	Author      string     `json:"author"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Services    []string   `json:"services"`
	Tags        []string   `json:"tags"`
	DefaultSize WindowSize `json:"default_size"`
	ShowInDock  bool       `json:"show_in_dock"`
}

// ManifestMetadata contains summary information about a catalog entry
type ManifestMetadata struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	Version     string `json:"version"`
}

// ToMetadata extracts metadata from a manifest
func (m *Manifest) ToMetadata() ManifestMetadata {
	return ManifestMetadata{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Icon:        m.Icon,
		Category:    m.Category,
		Version:     m.Version,
	}
}

// CatalogStats contains catalog statistics
type CatalogStats struct {
	TotalApps   int            `json:"total_apps"`
	DockApps    int            `json:"dock_apps"`
	Categories  map[string]int `json:"categories"`
	LastUpdated *time.Time     `json:"last_updated,omitempty"`
}
