// Package http holds the REST handlers for the desktop surface.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/420btc/mymac/internal/domain/catalog"
	"github.com/420btc/mymac/internal/domain/desktop"
	"github.com/420btc/mymac/internal/domain/dock"
	"github.com/420btc/mymac/internal/domain/session"
	"github.com/420btc/mymac/internal/domain/window"
	"github.com/420btc/mymac/internal/infrastructure/monitoring"
	"github.com/420btc/mymac/internal/service"
	"github.com/420btc/mymac/internal/shared/types"
)

// Version is the served API version.
const Version = "1.0.0"

// Handlers contains all HTTP handlers.
type Handlers struct {
	desktop  *desktop.Desktop
	catalog  *catalog.Manager
	registry *service.Registry
	sessions *session.Manager
	metrics  *monitoring.Metrics
}

// NewHandlers creates a handler set.
func NewHandlers(
	d *desktop.Desktop,
	cat *catalog.Manager,
	registry *service.Registry,
	sessions *session.Manager,
	metrics *monitoring.Metrics,
) *Handlers {
	return &Handlers{
		desktop:  d,
		catalog:  cat,
		registry: registry,
		sessions: sessions,
		metrics:  metrics,
	}
}

// Root handles the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "mymac",
		"version": Version,
	})
}

// Health handles the detailed health check.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"catalog":          h.catalog.Stats(),
		"windows":          h.desktop.Windows().Stats(),
		"service_registry": h.registry.Stats(),
		"sessions":         h.sessions.Stats(),
	})
}

// GetDesktop returns the full desktop snapshot.
func (h *Handlers) GetDesktop(c *gin.Context) {
	c.JSON(http.StatusOK, h.desktop.Snapshot())
}

// GetDockConfig returns the dock tuning and icon row.
func (h *Handlers) GetDockConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"config": h.desktop.Dock().Config(),
		"icons":  h.desktop.Dock().Icons(),
		"width":  h.desktop.Dock().Width(),
	})
}

// dockConfigPatch carries partial dock tuning; absent fields keep their
// current value.
type dockConfigPatch struct {
	BaseSize   *float64 `json:"base_size,omitempty"`
	Spacing    *float64 `json:"spacing,omitempty"`
	MaxScale   *float64 `json:"max_scale,omitempty"`
	MinScale   *float64 `json:"min_scale,omitempty"`
	Influence  *float64 `json:"influence,omitempty"`
	ActiveLerp *float64 `json:"active_lerp,omitempty"`
	SettleLerp *float64 `json:"settle_lerp,omitempty"`
	FrameRate  *int     `json:"frame_rate,omitempty"`
}

// PatchDockConfig merges partial tuning over the current dock config.
func (h *Handlers) PatchDockConfig(c *gin.Context) {
	var patch dockConfigPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := h.desktop.Dock().Config()
	applyPatch(&cfg, patch)
	h.desktop.Dock().Reconfigure(cfg)

	c.JSON(http.StatusOK, gin.H{"config": h.desktop.Dock().Config()})
}

func applyPatch(cfg *dock.Config, patch dockConfigPatch) {
	if patch.BaseSize != nil {
		cfg.BaseSize = *patch.BaseSize
	}
	if patch.Spacing != nil {
		cfg.Spacing = *patch.Spacing
	}
	if patch.MaxScale != nil {
		cfg.MaxScale = *patch.MaxScale
	}
	if patch.MinScale != nil {
		cfg.MinScale = *patch.MinScale
	}
	if patch.Influence != nil {
		cfg.Influence = *patch.Influence
	}
	if patch.ActiveLerp != nil {
		cfg.ActiveLerp = *patch.ActiveLerp
	}
	if patch.SettleLerp != nil {
		cfg.SettleLerp = *patch.SettleLerp
	}
	if patch.FrameRate != nil {
		cfg.FrameRate = *patch.FrameRate
	}
}

// ListWindows returns every window record.
func (h *Handlers) ListWindows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"windows": h.desktop.Windows().List(),
		"stack":   h.desktop.Windows().Stack(),
		"stats":   h.desktop.Windows().Stats(),
	})
}

// GetWindow returns one window record.
func (h *Handlers) GetWindow(c *gin.Context) {
	win, err := h.desktop.Windows().Get(c.Param("id"))
	if err != nil {
		windowError(c, err)
		return
	}
	c.JSON(http.StatusOK, win)
}

// OpenWindow opens, restores or focuses the window for an app.
func (h *Handlers) OpenWindow(c *gin.Context) {
	win, err := h.desktop.HandleDockClick(c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrAppNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, win)
}

// CloseWindow closes a window, retaining its record.
func (h *Handlers) CloseWindow(c *gin.Context) {
	h.windowOp(c, h.desktop.Windows().Close)
}

// MinimizeWindow minimizes an open window.
func (h *Handlers) MinimizeWindow(c *gin.Context) {
	h.windowOp(c, h.desktop.Windows().Minimize)
}

// RestoreWindow restores a minimized window and focuses it.
func (h *Handlers) RestoreWindow(c *gin.Context) {
	h.windowOp(c, h.desktop.Windows().Restore)
}

// FocusWindow raises a window to the top of the stack.
func (h *Handlers) FocusWindow(c *gin.Context) {
	h.windowOp(c, h.desktop.Windows().Focus)
}

// MoveWindow updates a window's position.
func (h *Handlers) MoveWindow(c *gin.Context) {
	var req types.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.windowOp(c, func(appID string) error {
		return h.desktop.Windows().Move(appID, req.X, req.Y)
	})
}

// ResizeWindow updates a window's dimensions.
func (h *Handlers) ResizeWindow(c *gin.Context) {
	var req types.ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.windowOp(c, func(appID string) error {
		return h.desktop.Windows().Resize(appID, req.Width, req.Height)
	})
}

// windowOp runs an operation against the window for :id and returns the
// updated record.
func (h *Handlers) windowOp(c *gin.Context, op func(appID string) error) {
	appID := c.Param("id")
	if err := op(appID); err != nil {
		windowError(c, err)
		return
	}

	win, err := h.desktop.Windows().Get(appID)
	if err != nil {
		windowError(c, err)
		return
	}
	c.JSON(http.StatusOK, win)
}

func windowError(c *gin.Context, err error) {
	if errors.Is(err, window.ErrWindowNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
}
