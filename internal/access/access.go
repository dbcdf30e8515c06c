// Package access decides whether a request may proceed given its session token.
package access

import (
	"errors"
	"strings"

	"github.com/router-for-me/WiFiVoucher/internal/models"
	"github.com/router-for-me/WiFiVoucher/internal/security"
)

// Requirement is the level of identity a resource needs.
type Requirement int

const (
	Public Requirement = iota
	Authenticated
	Admin
)

// Outcome is the result of an access decision.
type Outcome int

const (
	Allow Outcome = iota
	Unauthenticated
	InvalidToken
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	case InvalidToken:
		return "invalid_token"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decision carries the outcome and, when a token parsed, its claims.
type Decision struct {
	Outcome Outcome
	Claims  security.Claims
	Err     error
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Decide evaluates token against need. It is the only place role checks happen.
func Decide(token string, codec security.TokenCodec, need Requirement) Decision {
	token = strings.TrimSpace(token)
	if need == Public && token == "" {
		return Decision{Outcome: Allow}
	}
	if token == "" {
		return Decision{Outcome: Unauthenticated}
	}
	if codec == nil {
		return Decision{Outcome: InvalidToken, Err: errors.New("access: no token codec")}
	}
	claims, err := codec.Parse(token)
	if err != nil {
		if need == Public {
			return Decision{Outcome: Allow, Err: err}
		}
		return Decision{Outcome: InvalidToken, Err: err}
	}
	if need == Admin && claims.Role != models.RoleAdmin {
		return Decision{Outcome: Forbidden, Claims: claims}
	}
	return Decision{Outcome: Allow, Claims: claims}
}

var publicPages = map[string]struct{}{
	"/":         {},
	"/login":    {},
	"/register": {},
}

// SkipPageGate reports paths the page gate never inspects.
func SkipPageGate(path string) bool {
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/assets/") ||
		path == "/favicon.ico"
}

// RequirementForPath maps a page path to the identity it needs.
func RequirementForPath(path string) Requirement {
	if _, ok := publicPages[path]; ok {
		return Public
	}
	if path == "/admin" || strings.HasPrefix(path, "/admin/") {
		return Admin
	}
	return Authenticated
}
