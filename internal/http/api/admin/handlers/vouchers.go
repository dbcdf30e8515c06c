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

// VoucherHandler lists vouchers and manages the sessions they back.
type VoucherHandler struct {
	store *store.Store
}

// NewVoucherHandler constructs a VoucherHandler.
func NewVoucherHandler(s *store.Store) *VoucherHandler {
	return &VoucherHandler{store: s}
}

// List returns every voucher with owner and plan.
func (h *VoucherHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"vouchers": nonNil(h.store.ListVouchers(c.Request.Context()))})
}

// Sessions returns active sessions.
func (h *VoucherHandler) Sessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": nonNil(h.store.ListActiveSessions(c.Request.Context()))})
}

// CloseSession disconnects an active session.
func (h *VoucherHandler) CloseSession(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	ctx := c.Request.Context()
	ok, errClose := h.store.CloseSession(ctx, id)
	if errClose != nil {
		api.InternalError(c, "close session", errClose)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Session not found"})
		return
	}
	if errLog := h.store.LogActivity(ctx, store.NewActivity{
		UserID:   api.UserID(c),
		Type:     models.ActivitySessionClosed,
		Message:  "Session disconnected by administrator",
		Metadata: map[string]any{"session_id": id},
	}); errLog != nil {
		log.WithError(errLog).Warn("log session close activity failed")
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Transactions returns the latest completed payments.
func (h *VoucherHandler) Transactions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"transactions": nonNil(h.store.ListRecentTransactions(c.Request.Context()))})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
