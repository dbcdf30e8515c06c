package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/access"
	"github.com/router-for-me/WiFiVoucher/internal/http/api"
	handlers "github.com/router-for-me/WiFiVoucher/internal/http/api/admin/handlers"
	"github.com/router-for-me/WiFiVoucher/internal/security"
	"github.com/router-for-me/WiFiVoucher/internal/store"
)

// RegisterAdminRoutes registers the health check and the admin-gated dashboard API.
func RegisterAdminRoutes(r *gin.Engine, s *store.Store, codec security.TokenCodec, cookieName string) {
	if r == nil || s == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(s)
	r.GET("/healthz", healthHandler.Healthz)

	authed := r.Group("/api/admin")
	authed.Use(api.RequireAuth(codec, cookieName, access.Admin))

	dashboardHandler := handlers.NewDashboardHandler(s)
	authed.GET("/dashboard-stats", dashboardHandler.DashboardStats)
	authed.GET("/stats", dashboardHandler.Stats)
	authed.GET("/top-vouchers", dashboardHandler.TopVouchers)
	authed.GET("/peak-usage", dashboardHandler.PeakUsage)
	authed.GET("/payment-breakdown", dashboardHandler.PaymentBreakdown)

	userHandler := handlers.NewUserHandler(s)
	authed.GET("/users", userHandler.List)
	authed.POST("/users/:id/suspend", userHandler.Suspend)
	authed.POST("/users/:id/activate", userHandler.Activate)

	voucherHandler := handlers.NewVoucherHandler(s)
	authed.GET("/vouchers", voucherHandler.List)
	authed.GET("/sessions", voucherHandler.Sessions)
	authed.POST("/sessions/:id/close", voucherHandler.CloseSession)
	authed.GET("/transactions", voucherHandler.Transactions)

	activityHandler := handlers.NewActivityHandler(s)
	authed.GET("/activity-feed", activityHandler.Feed)
	authed.GET("/system-alerts", activityHandler.Alerts)
	authed.GET("/notifications", activityHandler.Alerts)
	authed.POST("/system-alerts/:id/dismiss", activityHandler.DismissAlert)

	exportHandler := handlers.NewExportHandler(s)
	authed.GET("/export/users", exportHandler.Users)
	authed.GET("/export/vouchers", exportHandler.Vouchers)
}
