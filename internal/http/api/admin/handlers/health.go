package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/store"
	log "github.com/sirupsen/logrus"
)

// HealthHandler reports database reachability.
type HealthHandler struct {
	store *store.Store
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(s *store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

// Healthz pings the database.
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if errPing := h.store.Ping(ctx); errPing != nil {
		log.WithError(errPing).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
