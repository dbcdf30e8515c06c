package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/http/api"
	"github.com/router-for-me/WiFiVoucher/internal/metrics"
	"github.com/router-for-me/WiFiVoucher/internal/payment"
	"github.com/router-for-me/WiFiVoucher/internal/store"
	"github.com/router-for-me/WiFiVoucher/internal/voucher"
)

// VoucherHandler serves the plan catalogue and the caller's vouchers.
type VoucherHandler struct {
	store   *store.Store
	gateway payment.Gateway
	metrics *metrics.Metrics
}

// NewVoucherHandler constructs a VoucherHandler.
func NewVoucherHandler(s *store.Store, gateway payment.Gateway, m *metrics.Metrics) *VoucherHandler {
	return &VoucherHandler{store: s, gateway: gateway, metrics: m}
}

// Plans returns the plans on sale.
func (h *VoucherHandler) Plans(c *gin.Context) {
	plans := h.store.ListVoucherPlans(c.Request.Context())
	out := make([]gin.H, 0, len(plans))
	for _, plan := range plans {
		out = append(out, gin.H{
			"id":               plan.ID,
			"name":             plan.Name,
			"description":      plan.Description,
			"data_limit_mb":    plan.DataLimitMB,
			"time_limit_hours": plan.TimeLimitHours,
			"price":            plan.Price,
			"is_active":        plan.IsActive,
			"created_at":       plan.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"plans": out})
}

// MyVouchers returns the caller's vouchers, newest first.
func (h *VoucherHandler) MyVouchers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"vouchers": nonNil(h.store.ListUserVouchers(c.Request.Context(), api.UserID(c)))})
}

// QRCode renders the caller's voucher code as a PNG.
func (h *VoucherHandler) QRCode(c *gin.Context) {
	view := h.store.GetUserVoucher(c.Request.Context(), api.UserID(c), c.Param("id"))
	if view == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Voucher not found"})
		return
	}
	png, errQR := voucher.QRCodePNG(view.Code, voucher.DefaultQRSize)
	if errQR != nil {
		api.InternalError(c, "render qr", errQR)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/png", png)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
