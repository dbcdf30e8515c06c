package security

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// legacyPayload is the wire shape of a legacy token.
type legacyPayload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Iat    int64  `json:"iat"` // Unix milliseconds.
	Exp    int64  `json:"exp"` // Unix milliseconds.
}

// LegacyCodec encodes claims as base64 JSON without any signature. Anyone
// who knows the format can mint a token for any user and role, so it only
// exists for compatibility with cookies issued by the previous deployment.
type LegacyCodec struct {
	Now func() time.Time
}

// NewLegacyCodec constructs a LegacyCodec using the wall clock.
func NewLegacyCodec() *LegacyCodec {
	return &LegacyCodec{Now: time.Now}
}

// Issue serializes the claims with iat/exp stamps.
func (c *LegacyCodec) Issue(claims Claims, ttl time.Duration) (string, error) {
	if strings.TrimSpace(claims.UserID) == "" {
		return "", fmt.Errorf("issue token: %w", ErrInvalidToken)
	}
	now := nowOrDefault(c.Now)
	payload := legacyPayload{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		Iat:    now.UnixMilli(),
		Exp:    now.Add(ttl).UnixMilli(),
	}
	raw, errMarshal := json.Marshal(payload)
	if errMarshal != nil {
		return "", fmt.Errorf("issue token: %w", errMarshal)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Parse decodes a token and rejects it once exp is in the past.
func (c *LegacyCodec) Parse(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrInvalidToken
	}
	raw, errDecode := base64.StdEncoding.DecodeString(token)
	if errDecode != nil {
		raw, errDecode = base64.RawStdEncoding.DecodeString(token)
		if errDecode != nil {
			return Claims{}, ErrInvalidToken
		}
	}
	var payload legacyPayload
	if errUnmarshal := json.Unmarshal(raw, &payload); errUnmarshal != nil {
		return Claims{}, ErrInvalidToken
	}
	if payload.UserID == "" || payload.Exp == 0 {
		return Claims{}, ErrInvalidToken
	}
	if payload.Exp < nowOrDefault(c.Now).UnixMilli() {
		return Claims{}, ErrExpiredToken
	}
	return Claims{
		UserID:    payload.UserID,
		Email:     payload.Email,
		Role:      payload.Role,
		IssuedAt:  time.UnixMilli(payload.Iat),
		ExpiresAt: time.UnixMilli(payload.Exp),
	}, nil
}
