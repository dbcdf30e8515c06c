package pages

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/access"
	"github.com/router-for-me/WiFiVoucher/internal/security"
	log "github.com/sirupsen/logrus"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

// Gate redirects page requests that lack the identity their path needs.
// Paths reported by access.SkipPageGate pass through untouched.
func Gate(codec security.TokenCodec, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if access.SkipPageGate(path) {
			c.Next()
			return
		}
		token, _ := c.Cookie(cookieName)
		decision := access.Decide(token, codec, access.RequirementForPath(path))
		switch decision.Outcome {
		case access.Allow:
			c.Set(claimsKey, decision.Claims)
			c.Next()
		case access.Forbidden:
			c.Redirect(http.StatusFound, dashboardPath)
			c.Abort()
		default:
			if decision.Err != nil {
				log.WithError(decision.Err).WithField("path", path).Debug("page token rejected")
			}
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
		}
	}
}

const claimsKey = "pageClaims"

func claimsFrom(c *gin.Context) (security.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return security.Claims{}, false
	}
	claims, ok := v.(security.Claims)
	return claims, ok && claims.UserID != ""
}
