package window

import (
	"errors"
	"sync"
	"time"

	"github.com/420btc/mymac/internal/shared/id"
	"github.com/420btc/mymac/internal/shared/types"
)

// ErrWindowNotFound is returned when no record exists for an app identifier.
var ErrWindowNotFound = errors.New("window not found")

// Config holds window placement tuning.
type Config struct {
	ScreenWidth   int
	ScreenHeight  int
	CascadeStep   int // offset between consecutively created windows
	CascadeBaseX  int
	CascadeBaseY  int
	MinWidth      int
	MinHeight     int
	DefaultWidth  int
	DefaultHeight int
}

// DefaultConfig returns the stock placement tuning.
func DefaultConfig() Config {
	return Config{
		ScreenWidth:   1440,
		ScreenHeight:  900,
		CascadeStep:   28,
		CascadeBaseX:  120,
		CascadeBaseY:  80,
		MinWidth:      320,
		MinHeight:     240,
		DefaultWidth:  720,
		DefaultHeight: 480,
	}
}

// OpenOptions carries per-app metadata applied when a record is first created.
type OpenOptions struct {
	Title string
	Icon  string
	Size  *types.WindowSize
}

// Manager maintains one window record per application identifier.
type Manager struct {
	mu      sync.RWMutex
	cfg     Config
	windows map[string]*types.Window // keyed by app ID
	nextZ   int
	created int // count of records ever created, drives the cascade

	onChange func(op string, win types.Window) // optional observer
}

// NewManager creates a window manager.
func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:     cfg,
		windows: make(map[string]*types.Window),
	}
}

// OnChange installs a single observer invoked after every mutating
// operation, outside the manager's lock.
func (m *Manager) OnChange(fn func(op string, win types.Window)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Open creates or refocuses the window for an app identifier.
//
// A new identifier gets a record at the next cascade position with the
// next stacking index. Re-opening a minimized window restores it.
// Re-opening an open, non-minimized window only refocuses; stored
// geometry does not change.
func (m *Manager) Open(appID string, opts OpenOptions) types.Window {
	m.mu.Lock()

	win, ok := m.windows[appID]
	if !ok {
		win = m.createLocked(appID, opts)
	}

	win.Open = true
	win.Minimized = false
	m.nextZ++
	win.Z = m.nextZ

	snapshot := *win
	m.mu.Unlock()

	m.notify("open", snapshot)
	return snapshot
}

// createLocked allocates a record at the next cascade slot. Caller holds mu.
func (m *Manager) createLocked(appID string, opts OpenOptions) *types.Window {
	size := types.WindowSize{Width: m.cfg.DefaultWidth, Height: m.cfg.DefaultHeight}
	if opts.Size != nil {
		size = m.clampSize(*opts.Size)
	}

	step := m.created * m.cfg.CascadeStep
	pos := types.WindowPosition{
		X: m.cfg.CascadeBaseX + step,
		Y: m.cfg.CascadeBaseY + step,
	}
	// Wrap the cascade before it walks off screen.
	if pos.X+size.Width > m.cfg.ScreenWidth || pos.Y+size.Height > m.cfg.ScreenHeight {
		m.created = 0
		pos = types.WindowPosition{X: m.cfg.CascadeBaseX, Y: m.cfg.CascadeBaseY}
	}
	m.created++

	title := opts.Title
	if title == "" {
		title = appID
	}

	win := &types.Window{
		ID:        string(id.NewWindowID()),
		AppID:     appID,
		Title:     title,
		Icon:      opts.Icon,
		Pos:       pos,
		Size:      size,
		CreatedAt: time.Now(),
	}
	m.windows[appID] = win
	return win
}

// Close clears the open flag. The record survives so geometry is
// remembered across reopen.
func (m *Manager) Close(appID string) error {
	m.mu.Lock()
	win, ok := m.windows[appID]
	if !ok {
		m.mu.Unlock()
		return ErrWindowNotFound
	}
	win.Open = false
	win.Minimized = false
	snapshot := *win
	m.mu.Unlock()

	m.notify("close", snapshot)
	return nil
}

// Focus assigns the next stacking index.
func (m *Manager) Focus(appID string) error {
	m.mu.Lock()
	win, ok := m.windows[appID]
	if !ok || !win.Open {
		m.mu.Unlock()
		return ErrWindowNotFound
	}
	m.nextZ++
	win.Z = m.nextZ
	snapshot := *win
	m.mu.Unlock()

	m.notify("focus", snapshot)
	return nil
}

// Minimize sets the minimized flag on an open window.
func (m *Manager) Minimize(appID string) error {
	m.mu.Lock()
	win, ok := m.windows[appID]
	if !ok || !win.Open {
		m.mu.Unlock()
		return ErrWindowNotFound
	}
	win.Minimized = true
	snapshot := *win
	m.mu.Unlock()

	m.notify("minimize", snapshot)
	return nil
}

// Restore clears the minimized flag and refocuses.
func (m *Manager) Restore(appID string) error {
	m.mu.Lock()
	win, ok := m.windows[appID]
	if !ok || !win.Open {
		m.mu.Unlock()
		return ErrWindowNotFound
	}
	win.Minimized = false
	m.nextZ++
	win.Z = m.nextZ
	snapshot := *win
	m.mu.Unlock()

	m.notify("restore", snapshot)
	return nil
}

// Move updates a window's position.
func (m *Manager) Move(appID string, x, y int) error {
	m.mu.Lock()
	win, ok := m.windows[appID]
	if !ok {
		m.mu.Unlock()
		return ErrWindowNotFound
	}
	win.Pos = types.WindowPosition{X: x, Y: y}
	snapshot := *win
	m.mu.Unlock()

	m.notify("move", snapshot)
	return nil
}

// Resize updates a window's dimensions, clamped to the configured minimums.
func (m *Manager) Resize(appID string, width, height int) error {
	m.mu.Lock()
	win, ok := m.windows[appID]
	if !ok {
		m.mu.Unlock()
		return ErrWindowNotFound
	}
	win.Size = m.clampSize(types.WindowSize{Width: width, Height: height})
	snapshot := *win
	m.mu.Unlock()

	m.notify("resize", snapshot)
	return nil
}

func (m *Manager) clampSize(size types.WindowSize) types.WindowSize {
	if size.Width < m.cfg.MinWidth {
		size.Width = m.cfg.MinWidth
	}
	if size.Height < m.cfg.MinHeight {
		size.Height = m.cfg.MinHeight
	}
	return size
}

// Get returns the record for an app identifier. Unknown identifiers fail
// immediately; this is a programmer-error guard, not a recoverable state.
func (m *Manager) Get(appID string) (types.Window, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	win, ok := m.windows[appID]
	if !ok {
		return types.Window{}, ErrWindowNotFound
	}
	return *win, nil
}

// List returns a snapshot of every record, open or not.
func (m *Manager) List() []types.Window {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wins := make([]types.Window, 0, len(m.windows))
	for _, win := range m.windows {
		wins = append(wins, *win)
	}
	return wins
}

// Stack returns open windows ordered by stacking index, bottom first.
func (m *Manager) Stack() []types.Window {
	m.mu.RLock()
	wins := make([]types.Window, 0, len(m.windows))
	for _, win := range m.windows {
		if win.Open {
			wins = append(wins, *win)
		}
	}
	m.mu.RUnlock()

	// Insertion sort; the stack is small.
	for i := 1; i < len(wins); i++ {
		for j := i; j > 0 && wins[j-1].Z > wins[j].Z; j-- {
			wins[j-1], wins[j] = wins[j], wins[j-1]
		}
	}
	return wins
}

// RestoreRecord replays a saved record. Used by session restore; the stacking
// index is reassigned, geometry and flags come from the snapshot.
func (m *Manager) RestoreRecord(rec types.Window) {
	m.mu.Lock()
	win, ok := m.windows[rec.AppID]
	if !ok {
		win = &types.Window{ID: rec.ID, AppID: rec.AppID, CreatedAt: rec.CreatedAt}
		if win.ID == "" {
			win.ID = string(id.NewWindowID())
		}
		m.windows[rec.AppID] = win
		m.created++
	}
	win.Title = rec.Title
	win.Icon = rec.Icon
	win.Open = rec.Open
	win.Minimized = rec.Minimized
	win.Pos = rec.Pos
	win.Size = m.clampSize(rec.Size)
	if rec.Open {
		m.nextZ++
		win.Z = m.nextZ
	}
	snapshot := *win
	m.mu.Unlock()

	m.notify("restore_record", snapshot)
}

// Stats returns manager statistics.
func (m *Manager) Stats() types.WindowStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var open, minimized int
	var topZ int
	var topAppID *string
	for appID, win := range m.windows {
		if !win.Open {
			continue
		}
		open++
		if win.Minimized {
			minimized++
		}
		if win.Z > topZ {
			topZ = win.Z
			top := appID
			topAppID = &top
		}
	}

	return types.WindowStats{
		TotalWindows:     len(m.windows),
		OpenWindows:      open,
		MinimizedWindows: minimized,
		TopAppID:         topAppID,
	}
}

func (m *Manager) notify(op string, win types.Window) {
	m.mu.RLock()
	fn := m.onChange
	m.mu.RUnlock()
	if fn != nil {
		fn(op, win)
	}
}
