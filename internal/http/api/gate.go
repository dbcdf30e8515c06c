// Package api holds the pieces shared by the front and admin JSON APIs.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/access"
	"github.com/router-for-me/WiFiVoucher/internal/security"
	log "github.com/sirupsen/logrus"
)

// Context keys set by RequireAuth.
const (
	ContextUserID = "userID"
	ContextEmail  = "userEmail"
	ContextRole   = "userRole"
)

// RequireAuth reads the session cookie and enforces need through access.Decide.
func RequireAuth(codec security.TokenCodec, cookieName string, need access.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)
		decision := access.Decide(token, codec, need)
		switch decision.Outcome {
		case access.Unauthenticated:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		case access.InvalidToken:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		case access.Forbidden:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		c.Set(ContextUserID, decision.Claims.UserID)
		c.Set(ContextEmail, decision.Claims.Email)
		c.Set(ContextRole, decision.Claims.Role)
		c.Next()
	}
}

// UserID returns the authenticated user ID, or "".
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// InternalError logs err and writes the generic 500 body.
func InternalError(c *gin.Context, op string, err error) {
	log.WithError(err).WithField("op", op).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}
