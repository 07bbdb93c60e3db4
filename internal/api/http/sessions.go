package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/420btc/mymac/internal/domain/session"
	"github.com/420btc/mymac/internal/shared/types"
)

// SaveSession captures the current desktop under a name.
func (h *Handlers) SaveSession(c *gin.Context) {
	var req types.SaveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.sessions.Save(req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, sess)
}

// RestoreSession replays a saved desktop.
func (h *Handlers) RestoreSession(c *gin.Context) {
	sessID := c.Param("id")
	if err := h.sessions.Restore(sessID); err != nil {
		sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restored": true,
		"id":       sessID,
		"desktop":  h.desktop.Snapshot(),
	})
}

// ListSessions lists saved sessions.
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions := h.sessions.List()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
		"stats":    h.sessions.Stats(),
	})
}

// GetSession returns one saved session in full.
func (h *Handlers) GetSession(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// DeleteSession removes a saved session.
func (h *Handlers) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func sessionError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
