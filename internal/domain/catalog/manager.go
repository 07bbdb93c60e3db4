package catalog

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/420btc/mymac/internal/infrastructure/store"
	"github.com/420btc/mymac/internal/shared/types"
)

// ErrAppNotFound is returned when no manifest exists for an identifier.
var ErrAppNotFound = errors.New("app not found")

const collection = "catalog"

// Manager handles app manifest persistence.
type Manager struct {
	manifests sync.Map // app ID -> *types.Manifest
	store     *store.Store
	mu        sync.RWMutex
	updated   *time.Time
}

// NewManager creates a catalog manager. The store may be nil for an
// in-memory catalog (tests).
func NewManager(st *store.Store) *Manager {
	return &Manager{store: st}
}

// Register saves a manifest to the catalog.
func (m *Manager) Register(manifest *types.Manifest) error {
	if manifest.ID == "" {
		return fmt.Errorf("manifest ID is required")
	}
	if manifest.Name == "" {
		return fmt.Errorf("manifest name is required")
	}

	now := time.Now()
	manifest.UpdatedAt = now
	if manifest.CreatedAt.IsZero() {
		manifest.CreatedAt = now
	}

	if m.store != nil {
		if err := m.store.Put(collection, manifest.ID, manifest); err != nil {
			return fmt.Errorf("failed to persist manifest %s: %w", manifest.ID, err)
		}
	}

	m.manifests.Store(manifest.ID, manifest)

	m.mu.Lock()
	m.updated = &now
	m.mu.Unlock()
	return nil
}

// Get returns the manifest for an app identifier.
func (m *Manager) Get(appID string) (*types.Manifest, error) {
	if cached, ok := m.manifests.Load(appID); ok {
		return cached.(*types.Manifest), nil
	}

	if m.store == nil {
		return nil, ErrAppNotFound
	}

	var manifest types.Manifest
	if err := m.store.Get(collection, appID, &manifest); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, fmt.Errorf("failed to load manifest %s: %w", appID, err)
	}
	if manifest.ID == "" {
		return nil, fmt.Errorf("manifest %s has empty ID field", appID)
	}

	m.manifests.Store(appID, &manifest)
	return &manifest, nil
}

// List returns all manifests, optionally filtered by category,
// sorted by name.
func (m *Manager) List(category *string) []*types.Manifest {
	var manifests []*types.Manifest
	m.manifests.Range(func(_, value interface{}) bool {
		manifest := value.(*types.Manifest)
		if category == nil || manifest.Category == *category {
			manifests = append(manifests, manifest)
		}
		return true
	})

	for i := 1; i < len(manifests); i++ {
		for j := i; j > 0 && manifests[j-1].Name > manifests[j].Name; j-- {
			manifests[j-1], manifests[j] = manifests[j], manifests[j-1]
		}
	}
	return manifests
}

// DockApps returns the manifests that appear in the dock, sorted by name.
func (m *Manager) DockApps() []*types.Manifest {
	all := m.List(nil)
	dock := make([]*types.Manifest, 0, len(all))
	for _, manifest := range all {
		if manifest.ShowInDock {
			dock = append(dock, manifest)
		}
	}
	return dock
}

// Remove deletes a manifest from the catalog.
func (m *Manager) Remove(appID string) error {
	if _, ok := m.manifests.Load(appID); !ok {
		return ErrAppNotFound
	}

	if m.store != nil {
		if err := m.store.Delete(collection, appID); err != nil {
			return fmt.Errorf("failed to delete manifest %s: %w", appID, err)
		}
	}

	m.manifests.Delete(appID)

	now := time.Now()
	m.mu.Lock()
	m.updated = &now
	m.mu.Unlock()
	return nil
}

// Stats returns catalog statistics.
func (m *Manager) Stats() types.CatalogStats {
	var total, dock int
	categories := make(map[string]int)

	m.manifests.Range(func(_, value interface{}) bool {
		manifest := value.(*types.Manifest)
		total++
		if manifest.ShowInDock {
			dock++
		}
		categories[manifest.Category]++
		return true
	})

	m.mu.RLock()
	updated := m.updated
	m.mu.RUnlock()

	return types.CatalogStats{
		TotalApps:   total,
		DockApps:    dock,
		Categories:  categories,
		LastUpdated: updated,
	}
}
