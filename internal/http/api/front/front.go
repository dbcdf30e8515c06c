package front

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/access"
	"github.com/router-for-me/WiFiVoucher/internal/config"
	"github.com/router-for-me/WiFiVoucher/internal/http/api"
	"github.com/router-for-me/WiFiVoucher/internal/http/api/front/handlers"
	"github.com/router-for-me/WiFiVoucher/internal/metrics"
	"github.com/router-for-me/WiFiVoucher/internal/payment"
	"github.com/router-for-me/WiFiVoucher/internal/ratelimit"
	"github.com/router-for-me/WiFiVoucher/internal/security"
	"github.com/router-for-me/WiFiVoucher/internal/store"
)

// Deps bundles what the end-user API needs.
type Deps struct {
	Store   *store.Store
	Codec   security.TokenCodec
	Gateway payment.Gateway
	Limiter *ratelimit.Manager
	Metrics *metrics.Metrics
	Cookie  config.CookieConfig
	TTL     time.Duration
}

// RegisterFrontRoutes registers the auth, profile and voucher endpoints.
func RegisterFrontRoutes(r *gin.Engine, deps Deps) {
	if r == nil || deps.Store == nil {
		return
	}

	authHandler := handlers.NewAuthHandler(deps.Store, deps.Codec, deps.Cookie, deps.TTL)
	authGroup := r.Group("/api/auth")
	authGroup.Use(ratelimit.Middleware(deps.Limiter, "auth", nil))
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/logout", authHandler.Logout)

	requireUser := api.RequireAuth(deps.Codec, deps.Cookie.Name, access.Authenticated)

	profileHandler := handlers.NewProfileHandler(deps.Store)
	r.GET("/api/user/profile", requireUser, profileHandler.Get)

	voucherHandler := handlers.NewVoucherHandler(deps.Store, deps.Gateway, deps.Metrics)
	vouchers := r.Group("/api/vouchers")
	vouchers.GET("/plans", voucherHandler.Plans)

	authed := vouchers.Group("")
	authed.Use(requireUser)
	authed.GET("/my-vouchers", voucherHandler.MyVouchers)
	authed.GET("/:id/qr", voucherHandler.QRCode)
	authed.POST("/purchase", ratelimit.Middleware(deps.Limiter, "purchase", api.UserID), voucherHandler.Purchase)
}
