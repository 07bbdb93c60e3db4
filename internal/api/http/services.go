package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/420btc/mymac/internal/domain/catalog"
	"github.com/420btc/mymac/internal/infrastructure/monitoring"
	"github.com/420btc/mymac/internal/shared/types"
)

// executeTimeout bounds one provider tool call.
const executeTimeout = 60 * time.Second

// ListApps lists catalog entries, optionally filtered by category.
func (h *Handlers) ListApps(c *gin.Context) {
	var category *string
	if q := c.Query("category"); q != "" {
		category = &q
	}

	apps := h.catalog.List(category)
	metadata := make([]types.ManifestMetadata, len(apps))
	for i, app := range apps {
		metadata[i] = app.ToMetadata()
	}

	c.JSON(http.StatusOK, gin.H{
		"apps":  metadata,
		"stats": h.catalog.Stats(),
	})
}

// GetApp returns one full manifest.
func (h *Handlers) GetApp(c *gin.Context) {
	manifest, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrAppNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, manifest)
}

// ListServices lists registered providers.
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if q := c.Query("category"); q != "" {
		cat := types.Category(q)
		category = &cat
	}

	services := h.registry.List(category)
	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"count":    len(services),
	})
}

// DiscoverServices searches providers by relevance to a query.
func (h *Handlers) DiscoverServices(c *gin.Context) {
	var req types.DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	services := h.registry.Discover(req.Query, 10)
	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"count":    len(services),
	})
}

// ExecuteService runs one provider tool.
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appCtx := &types.Context{AppID: req.AppID}

	serviceID := req.ToolID
	if i := strings.IndexByte(serviceID, '.'); i >= 0 {
		serviceID = serviceID[:i]
	}
	timer := monitoring.NewTimer(h.metrics, serviceID, req.ToolID)

	ctx, cancel := context.WithTimeout(c.Request.Context(), executeTimeout)
	defer cancel()

	result, err := h.registry.Execute(ctx, req.ToolID, req.Params, appCtx)
	if err != nil {
		timer.Stop("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := "success"
	if !result.Success {
		status = "failure"
	}
	timer.Stop(status)

	c.JSON(http.StatusOK, result)
}
