package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwtIssuer = "wifi-voucher"

type jwtClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTCodec issues HMAC-SHA256 signed tokens carrying the same claims as
// LegacyCodec.
type JWTCodec struct {
	secret []byte
	Now    func() time.Time
}

// NewJWTCodec constructs a JWTCodec; the secret must not be empty.
func NewJWTCodec(secret string) (*JWTCodec, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("jwt codec: empty secret")
	}
	return &JWTCodec{secret: []byte(secret), Now: time.Now}, nil
}

// Issue signs the claims.
func (c *JWTCodec) Issue(claims Claims, ttl time.Duration) (string, error) {
	if strings.TrimSpace(claims.UserID) == "" {
		return "", fmt.Errorf("issue token: %w", ErrInvalidToken)
	}
	now := nowOrDefault(c.Now)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Email: claims.Email,
		Role:  claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			Issuer:    jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, errSign := token.SignedString(c.secret)
	if errSign != nil {
		return "", fmt.Errorf("issue token: %w", errSign)
	}
	return signed, nil
}

// Parse verifies the signature and expiry.
func (c *JWTCodec) Parse(token string) (Claims, error) {
	var parsed jwtClaims
	_, errParse := jwt.ParseWithClaims(strings.TrimSpace(token), &parsed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	},
		jwt.WithIssuer(jwtIssuer),
		jwt.WithTimeFunc(func() time.Time { return nowOrDefault(c.Now) }),
	)
	if errParse != nil {
		if errors.Is(errParse, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrInvalidToken
	}
	if parsed.Subject == "" || parsed.ExpiresAt == nil {
		return Claims{}, ErrInvalidToken
	}
	out := Claims{
		UserID:    parsed.Subject,
		Email:     parsed.Email,
		Role:      parsed.Role,
		ExpiresAt: parsed.ExpiresAt.Time,
	}
	if parsed.IssuedAt != nil {
		out.IssuedAt = parsed.IssuedAt.Time
	}
	return out, nil
}
