package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/http/api"
	"github.com/router-for-me/WiFiVoucher/internal/store"
)

// ProfileHandler serves the caller's own account.
type ProfileHandler struct {
	store *store.Store
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(s *store.Store) *ProfileHandler {
	return &ProfileHandler{store: s}
}

// Get returns the authenticated user without the password hash.
func (h *ProfileHandler) Get(c *gin.Context) {
	user := h.store.GetUserByID(c.Request.Context(), api.UserID(c))
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"full_name":    user.FullName,
		"phone":        user.Phone,
		"role":         user.Role,
		"status":       user.Status,
		"data_used_mb": user.DataUsedMB,
		"created_at":   user.CreatedAt,
		"last_login":   user.LastLogin,
	}})
}
