package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/http/api"
	"github.com/router-for-me/WiFiVoucher/internal/store"
)

// ActivityHandler serves the activity feed and operator alerts.
type ActivityHandler struct {
	store *store.Store
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(s *store.Store) *ActivityHandler {
	return &ActivityHandler{store: s}
}

// Feed returns the latest activity entries.
func (h *ActivityHandler) Feed(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"activities": nonNil(h.store.ListActivityFeed(c.Request.Context()))})
}

// Alerts returns alerts that are still open.
func (h *ActivityHandler) Alerts(c *gin.Context) {
	rows := h.store.ListSystemAlerts(c.Request.Context())
	out := make([]gin.H, 0, len(rows))
	for _, alert := range rows {
		out = append(out, gin.H{
			"id":           alert.ID,
			"type":         alert.Type,
			"title":        alert.Title,
			"message":      alert.Message,
			"severity":     alert.Severity,
			"is_dismissed": alert.IsDismissed,
			"created_at":   alert.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"alerts": out})
}

// DismissAlert hides an alert.
func (h *ActivityHandler) DismissAlert(c *gin.Context) {
	ok, errDismiss := h.store.DismissAlert(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if errDismiss != nil {
		api.InternalError(c, "dismiss alert", errDismiss)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Alert not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
