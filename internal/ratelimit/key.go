package ratelimit

import "fmt"

// KeyForDecision builds a limiter key for the resolved scope on a route group.
func KeyForDecision(route string, decision Decision) string {
	if !decision.Quota.Enabled() || decision.Subject == "" {
		return ""
	}
	switch decision.Scope {
	case ScopeUser:
		return fmt.Sprintf("u:%s:r:%s", decision.Subject, route)
	case ScopeClientIP:
		return fmt.Sprintf("ip:%s:r:%s", decision.Subject, route)
	default:
		return ""
	}
}
