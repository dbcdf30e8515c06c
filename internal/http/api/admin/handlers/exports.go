package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/export"
	"github.com/router-for-me/WiFiVoucher/internal/store"
)

// ExportHandler streams CSV downloads.
type ExportHandler struct {
	store *store.Store
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(s *store.Store) *ExportHandler {
	return &ExportHandler{store: s}
}

// Users downloads every user as CSV.
func (h *ExportHandler) Users(c *gin.Context) {
	h.attach(c, "users", h.store.ExportUsersCSV(c.Request.Context()))
}

// Vouchers downloads every voucher as CSV.
func (h *ExportHandler) Vouchers(c *gin.Context) {
	h.attach(c, "vouchers", h.store.ExportVouchersCSV(c.Request.Context()))
}

func (h *ExportHandler) attach(c *gin.Context, kind, body string) {
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(kind, h.store.Now())+`"`)
	c.Data(http.StatusOK, "text/csv", []byte(body))
}
