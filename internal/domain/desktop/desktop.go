package desktop

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/420btc/mymac/internal/domain/catalog"
	"github.com/420btc/mymac/internal/domain/dock"
	"github.com/420btc/mymac/internal/domain/window"
	"github.com/420btc/mymac/internal/infrastructure/logging"
	"github.com/420btc/mymac/internal/infrastructure/monitoring"
	"github.com/420btc/mymac/internal/shared/types"
)

// Event is a window state change fanned out to subscribers.
type Event struct {
	Type   string       `json:"type"` // open, close, focus, minimize, restore, move, resize
	Window types.Window `json:"window"`
}

// State is the full desktop snapshot served over REST and on WS connect.
type State struct {
	Icons   []dock.Icon    `json:"icons"`
	DockCfg dock.Config    `json:"dock_config"`
	Windows []types.Window `json:"windows"`
	Stack   []types.Window `json:"stack"`
}

// Desktop wires dock clicks to window operations and publishes window
// events.
type Desktop struct {
	dock    *dock.Engine
	windows *window.Manager
	catalog *catalog.Manager
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu      sync.RWMutex
	subs    map[int]chan Event
	nextSub int
}

// New creates a desktop. The catalog must already be seeded; the dock's
// icon row is built from its dock apps.
func New(cat *catalog.Manager, dockCfg dock.Config, winCfg window.Config, logger *logging.Logger) *Desktop {
	if logger == nil {
		logger = logging.NewNop()
	}

	d := &Desktop{
		windows: window.NewManager(winCfg),
		catalog: cat,
		logger:  logger.Component("desktop"),
		subs:    make(map[int]chan Event),
	}
	d.dock = dock.NewEngine(dockCfg, d.buildIcons())

	d.windows.OnChange(func(op string, win types.Window) {
		d.publish(Event{Type: op, Window: win})
		if d.metrics != nil {
			d.metrics.RecordWindowOp(op)
			d.metrics.SetWindowsOpen(d.windows.Stats().OpenWindows)
		}
	})

	return d
}

// WithMetrics attaches the metrics collector.
func (d *Desktop) WithMetrics(metrics *monitoring.Metrics) *Desktop {
	d.metrics = metrics
	if metrics != nil {
		d.dock.OnFrame(metrics.RecordDockFrame)
	}
	return d
}

// Dock returns the dock engine.
func (d *Desktop) Dock() *dock.Engine {
	return d.dock
}

// Windows returns the window manager.
func (d *Desktop) Windows() *window.Manager {
	return d.windows
}

// buildIcons derives the dock icon row from the catalog.
func (d *Desktop) buildIcons() []dock.Icon {
	apps := d.catalog.DockApps()
	icons := make([]dock.Icon, len(apps))
	for i, app := range apps {
		icons[i] = dock.Icon{ID: app.ID, Name: app.Name, Image: app.Icon}
	}
	return icons
}

// RefreshIcons rebuilds the icon row after catalog changes.
func (d *Desktop) RefreshIcons() {
	d.dock.SetIcons(d.buildIcons())
}

// HandleDockClick implements the icon-click contract: open if closed,
// restore if minimized, focus if already open. Returns the resulting
// window record.
func (d *Desktop) HandleDockClick(appID string) (types.Window, error) {
	manifest, err := d.catalog.Get(appID)
	if err != nil {
		return types.Window{}, fmt.Errorf("dock click for unknown app %s: %w", appID, err)
	}

	win, err := d.windows.Get(appID)
	switch {
	case err != nil || !win.Open:
		size := manifest.DefaultSize
		opts := window.OpenOptions{Title: manifest.Name, Icon: manifest.Icon}
		if size.Width > 0 && size.Height > 0 {
			opts.Size = &size
		}
		win = d.windows.Open(appID, opts)
		d.logger.Info("Opened window",
			zap.String("app_id", appID),
			zap.String("window_id", win.ID),
		)
	case win.Minimized:
		if err := d.windows.Restore(appID); err != nil {
			return types.Window{}, err
		}
		win, _ = d.windows.Get(appID)
	default:
		if err := d.windows.Focus(appID); err != nil {
			return types.Window{}, err
		}
		win, _ = d.windows.Get(appID)
	}

	return win, nil
}

// CloseWindow is the window-close callback surfaced to the frontend.
func (d *Desktop) CloseWindow(appID string) error {
	return d.windows.Close(appID)
}

// Snapshot returns the full desktop state.
func (d *Desktop) Snapshot() State {
	return State{
		Icons:   d.dock.Icons(),
		DockCfg: d.dock.Config(),
		Windows: d.windows.List(),
		Stack:   d.windows.Stack(),
	}
}

// Subscribe registers a window event listener. The returned channel is
// buffered; events are dropped for slow subscribers rather than blocking
// the window manager.
func (d *Desktop) Subscribe() (int, <-chan Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextSub++
	ch := make(chan Event, 32)
	d.subs[d.nextSub] = ch
	return d.nextSub, ch
}

// Unsubscribe removes a listener and closes its channel.
func (d *Desktop) Unsubscribe(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ch, ok := d.subs[id]; ok {
		delete(d.subs, id)
		close(ch)
	}
}

func (d *Desktop) publish(event Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, ch := range d.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
