package security

import (
	"errors"
	"time"
)

var (
	// ErrInvalidToken reports a token that cannot be decoded or lacks an identity.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken reports a well-formed token whose expiry has passed.
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the identity carried by a session token.
type Claims struct {
	UserID    string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec issues and parses session tokens. A successful Parse only
// authenticates the bearer; role checks stay with the caller.
type TokenCodec interface {
	Issue(claims Claims, ttl time.Duration) (string, error)
	Parse(token string) (Claims, error)
}

func nowOrDefault(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}
