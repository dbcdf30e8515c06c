package ratelimit

import "strings"

// ResolveLimit picks the subject a request is counted against. Authenticated
// callers are limited per user so that a shared hotspot NAT does not starve
// everyone behind it; anonymous callers fall back to the client address.
func ResolveLimit(cfg SettingsConfig, clientIP, userID string) Decision {
	quota := cfg.Quota()
	if !quota.Enabled() {
		return Decision{}
	}
	if userID = strings.TrimSpace(userID); userID != "" {
		return Decision{Quota: quota, Scope: ScopeUser, Subject: userID}
	}
	if clientIP = strings.TrimSpace(clientIP); clientIP != "" {
		return Decision{Quota: quota, Scope: ScopeClientIP, Subject: clientIP}
	}
	return Decision{}
}
