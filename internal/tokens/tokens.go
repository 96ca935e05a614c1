// Package tokens signs the HS256 tokens the hosted video provider accepts:
// a server token for REST calls and per-user tokens for browser clients.
package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSecret = errors.New("video api secret is not configured")

// ServerToken creates the token used to authenticate server-side API calls.
func ServerToken(secret string) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	claims := jwt.MapClaims{
		"server": true,
		"iat":    time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// UserToken creates a client token scoped to identity. A zero ttl yields a
// token without expiry.
func UserToken(secret, identity string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	if identity == "" {
		return "", errors.New("identity is required")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": identity,
		"iat":     now.Unix(),
	}
	if ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
