package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/store"
)

// DashboardHandler serves the admin overview aggregates.
type DashboardHandler struct {
	store *store.Store
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(s *store.Store) *DashboardHandler {
	return &DashboardHandler{store: s}
}

// DashboardStats returns the full overview counters.
func (h *DashboardHandler) DashboardStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.DashboardStats(c.Request.Context()))
}

// Stats returns the compact header counters.
func (h *DashboardHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.AdminStats(c.Request.Context()))
}

// TopVouchers returns the best-selling plans.
func (h *DashboardHandler) TopVouchers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"vouchers": h.store.TopPerformingVouchers(c.Request.Context())})
}

// PeakUsage returns active sessions bucketed by day-part.
func (h *DashboardHandler) PeakUsage(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.PeakUsageTimes(c.Request.Context()))
}

// PaymentBreakdown returns completed revenue per payment method.
func (h *DashboardHandler) PaymentBreakdown(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"breakdown": h.store.PaymentMethodBreakdown(c.Request.Context())})
}
