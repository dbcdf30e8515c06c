package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/http/api"
	"github.com/router-for-me/WiFiVoucher/internal/models"
	"github.com/router-for-me/WiFiVoucher/internal/store"
	log "github.com/sirupsen/logrus"
)

// UserHandler manages end-user accounts.
type UserHandler struct {
	store *store.Store
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(s *store.Store) *UserHandler {
	return &UserHandler{store: s}
}

// List returns users newest first, optionally filtered by ?search=.
func (h *UserHandler) List(c *gin.Context) {
	rows := h.store.ListUsers(c.Request.Context(), c.Query("search"))
	out := make([]gin.H, 0, len(rows))
	for _, u := range rows {
		out = append(out, gin.H{
			"id":           u.ID,
			"email":        u.Email,
			"full_name":    u.FullName,
			"role":         u.Role,
			"created_at":   u.CreatedAt,
			"last_login":   u.LastLogin,
			"status":       u.Status,
			"data_used_mb": u.DataUsedMB,
			"phone":        u.Phone,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// Suspend blocks a user from logging in.
func (h *UserHandler) Suspend(c *gin.Context) {
	h.setStatus(c, models.UserStatusSuspended, models.ActivityUserSuspended, "suspended")
}

// Activate lifts a suspension.
func (h *UserHandler) Activate(c *gin.Context) {
	h.setStatus(c, models.UserStatusActive, models.ActivityUserActivated, "activated")
}

func (h *UserHandler) setStatus(c *gin.Context, status, activity, verb string) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return
	}
	if status == models.UserStatusSuspended && id == api.UserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot suspend your own account"})
		return
	}
	ctx := c.Request.Context()
	ok, errUpdate := h.store.SetUserStatus(ctx, id, status)
	if errUpdate != nil {
		api.InternalError(c, "set user status", errUpdate)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if errLog := h.store.LogActivity(ctx, store.NewActivity{
		UserID:   id,
		Type:     activity,
		Message:  "User " + verb + " by administrator",
		Metadata: map[string]any{"admin_id": api.UserID(c)},
	}); errLog != nil {
		log.WithError(errLog).Warn("log user status activity failed")
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": status})
}
