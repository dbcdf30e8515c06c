package ratelimit

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// SubjectFunc returns the authenticated user ID for the request, or "".
type SubjectFunc func(c *gin.Context) string

// Middleware limits requests on a route group. A limiter error lets the
// request through.
func Middleware(m *Manager, route string, subject SubjectFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		userID := ""
		if subject != nil {
			userID = subject(c)
		}
		decision := ResolveLimit(m.Settings(), c.ClientIP(), userID)
		key := KeyForDecision(route, decision)
		if key == "" {
			c.Next()
			return
		}
		result, errAllow := m.Allow(c.Request.Context(), key, decision.Quota)
		if errAllow != nil {
			log.WithError(errAllow).WithField("route", route).Warn("rate limit check failed")
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Quota.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Reset.IsZero() {
			c.Header("X-RateLimit-Reset", strconv.FormatInt(result.Reset.Unix(), 10))
		}
		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(result)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}
		c.Next()
	}
}

func retryAfterSeconds(result Result) int {
	seconds := int(math.Ceil(result.RetryAfter.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}
