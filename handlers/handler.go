// Package handlers renders the dashboard over HTTP and turns requests into
// session events.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"procurement-dashboard/session"
)

// Handler serves one session. When the dataset failed to load, session is
// nil and every page answers with the load failure.
type Handler struct {
	session *session.Session
	loadErr error
	logger  *slog.Logger
}

func New(s *session.Session, loadErr error, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{session: s, loadErr: loadErr, logger: logger}
}

func (h *Handler) Health(c *gin.Context) {
	if h.loadErr != nil || h.session == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "load_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requireDataset stops the chain with 503 when there is nothing to render.
func (h *Handler) requireDataset() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.loadErr == nil && h.session != nil {
			c.Next()
			return
		}
		msg := "Dataset unavailable"
		if h.loadErr != nil {
			msg = h.loadErr.Error()
		}
		h.fail(c, http.StatusServiceUnavailable, msg)
		c.Abort()
	}
}
