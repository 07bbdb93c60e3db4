package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/420btc/mymac/internal/domain/dock"
	"github.com/420btc/mymac/internal/infrastructure/store"
	"github.com/420btc/mymac/internal/shared/id"
	"github.com/420btc/mymac/internal/shared/types"
)

// ErrSessionNotFound is returned when no snapshot exists for an id.
var ErrSessionNotFound = errors.New("session not found")

const collection = "sessions"

// Session is one saved desktop snapshot.
type Session struct {
	ID          string                            `json:"id"`
	Name        string                            `json:"name"`
	Description string                            `json:"description,omitempty"`
	CreatedAt   time.Time                         `json:"created_at"`
	Windows     []types.Window                    `json:"windows"`
	DockCfg     dock.Config                       `json:"dock_config"`
	State       map[string]map[string]interface{} `json:"state,omitempty"` // hook name -> blob
}

// Metadata summarizes a snapshot for listings.
type Metadata struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Windows     int       `json:"windows"`
}

// Stats contains session manager statistics.
type Stats struct {
	TotalSessions int        `json:"total_sessions"`
	LastSaved     *time.Time `json:"last_saved,omitempty"`
	LastRestored  *time.Time `json:"last_restored,omitempty"`
}

// WindowManager is the slice of the window manager sessions need.
type WindowManager interface {
	List() []types.Window
	RestoreRecord(rec types.Window)
	Focus(appID string) error
}

// DockEngine is the slice of the dock engine sessions need.
type DockEngine interface {
	Config() dock.Config
	Reconfigure(cfg dock.Config)
}

// StateHook lets a provider contribute a state blob to snapshots.
// Capture runs on save; Restore runs on restore with the saved blob.
type StateHook interface {
	CaptureState() map[string]interface{}
	RestoreState(blob map[string]interface{})
}

// Manager handles snapshot persistence.
type Manager struct {
	sessions sync.Map // session ID -> *Session
	windows  WindowManager
	dock     DockEngine
	store    *store.Store

	hookMu sync.RWMutex
	hooks  map[string]StateHook

	mu           sync.RWMutex
	lastSaved    *time.Time
	lastRestored *time.Time
}

// NewManager creates a session manager. The store may be nil for
// in-memory snapshots (tests).
func NewManager(windows WindowManager, dockEngine DockEngine, st *store.Store) *Manager {
	m := &Manager{
		windows: windows,
		dock:    dockEngine,
		store:   st,
		hooks:   make(map[string]StateHook),
	}
	m.loadIndex()
	return m
}

// RegisterHook adds a named state hook. Hooks registered after a save are
// simply absent from that snapshot.
func (m *Manager) RegisterHook(name string, hook StateHook) {
	m.hookMu.Lock()
	m.hooks[name] = hook
	m.hookMu.Unlock()
}

// loadIndex warms the cache with snapshots already on disk.
func (m *Manager) loadIndex() {
	if m.store == nil {
		return
	}
	ids, err := m.store.List(collection)
	if err != nil {
		return
	}
	for _, sessID := range ids {
		var sess Session
		if err := m.store.Get(collection, sessID, &sess); err == nil && sess.ID != "" {
			m.sessions.Store(sess.ID, &sess)
		}
	}
}

// Save captures the current desktop under a name.
func (m *Manager) Save(name, description string) (*Session, error) {
	if name == "" {
		return nil, fmt.Errorf("session name is required")
	}

	now := time.Now()
	sess := &Session{
		ID:          string(id.NewSessionID()),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		Windows:     m.windows.List(),
		DockCfg:     m.dock.Config(),
		State:       m.captureHooks(),
	}

	if m.store != nil {
		if err := m.store.Put(collection, sess.ID, sess); err != nil {
			return nil, fmt.Errorf("failed to persist session: %w", err)
		}
	}

	m.sessions.Store(sess.ID, sess)

	m.mu.Lock()
	m.lastSaved = &now
	m.mu.Unlock()

	return sess, nil
}

func (m *Manager) captureHooks() map[string]map[string]interface{} {
	m.hookMu.RLock()
	defer m.hookMu.RUnlock()

	if len(m.hooks) == 0 {
		return nil
	}
	state := make(map[string]map[string]interface{}, len(m.hooks))
	for name, hook := range m.hooks {
		state[name] = hook.CaptureState()
	}
	return state
}

// Get loads a snapshot by id.
func (m *Manager) Get(sessID string) (*Session, error) {
	if cached, ok := m.sessions.Load(sessID); ok {
		return cached.(*Session), nil
	}

	if m.store == nil {
		return nil, ErrSessionNotFound
	}

	var sess Session
	if err := m.store.Get(collection, sessID, &sess); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session %s: %w", sessID, err)
	}
	if sess.ID == "" {
		return nil, fmt.Errorf("session %s has empty ID field", sessID)
	}

	m.sessions.Store(sessID, &sess)
	return &sess, nil
}

// Restore replays a snapshot through the window manager.
//
// Two passes: first every record lands with its saved geometry and flags,
// then open windows are refocused in their saved stacking order so the
// relative z-order survives with fresh, strictly increasing indices.
func (m *Manager) Restore(sessID string) error {
	sess, err := m.Get(sessID)
	if err != nil {
		return err
	}

	for _, rec := range sess.Windows {
		m.windows.RestoreRecord(rec)
	}

	open := make([]types.Window, 0, len(sess.Windows))
	for _, rec := range sess.Windows {
		if rec.Open {
			open = append(open, rec)
		}
	}
	for i := 1; i < len(open); i++ {
		for j := i; j > 0 && open[j-1].Z > open[j].Z; j-- {
			open[j-1], open[j] = open[j], open[j-1]
		}
	}
	for _, rec := range open {
		m.windows.Focus(rec.AppID)
	}

	m.dock.Reconfigure(sess.DockCfg)
	m.restoreHooks(sess.State)

	now := time.Now()
	m.mu.Lock()
	m.lastRestored = &now
	m.mu.Unlock()

	return nil
}

func (m *Manager) restoreHooks(state map[string]map[string]interface{}) {
	if state == nil {
		return
	}
	m.hookMu.RLock()
	defer m.hookMu.RUnlock()

	for name, blob := range state {
		if hook, ok := m.hooks[name]; ok {
			hook.RestoreState(blob)
		}
	}
}

// List returns metadata for every snapshot, newest first.
func (m *Manager) List() []Metadata {
	var metadata []Metadata
	m.sessions.Range(func(_, value interface{}) bool {
		sess := value.(*Session)
		metadata = append(metadata, Metadata{
			ID:          sess.ID,
			Name:        sess.Name,
			Description: sess.Description,
			CreatedAt:   sess.CreatedAt,
			Windows:     len(sess.Windows),
		})
		return true
	})

	for i := 1; i < len(metadata); i++ {
		for j := i; j > 0 && metadata[j-1].CreatedAt.Before(metadata[j].CreatedAt); j-- {
			metadata[j-1], metadata[j] = metadata[j], metadata[j-1]
		}
	}
	return metadata
}

// Delete removes a snapshot.
func (m *Manager) Delete(sessID string) error {
	if _, ok := m.sessions.Load(sessID); !ok {
		return ErrSessionNotFound
	}

	if m.store != nil {
		if err := m.store.Delete(collection, sessID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}

	m.sessions.Delete(sessID)
	return nil
}

// Stats returns session manager statistics.
func (m *Manager) Stats() Stats {
	var total int
	m.sessions.Range(func(_, _ interface{}) bool {
		total++
		return true
	})

	m.mu.RLock()
	lastSaved := m.lastSaved
	lastRestored := m.lastRestored
	m.mu.RUnlock()

	return Stats{
		TotalSessions: total,
		LastSaved:     lastSaved,
		LastRestored:  lastRestored,
	}
}
