package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blesswrld/codesync/backend/go-services/pkg/middleware"
)

// claimsToken exposes already decoded claims through middleware.Token.
type claimsToken jwt.MapClaims

func (t claimsToken) Claims(v interface{}) error {
	b, err := json.Marshal(map[string]interface{}(t))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// InsecureVerifier decodes bearer JWTs WITHOUT checking the signature. It is
// enabled only by ALLOW_INSECURE_TOKEN for local and integration runs.
// Expired tokens are still rejected.
type InsecureVerifier struct {
	now func() time.Time
}

func NewInsecureVerifier() *InsecureVerifier { return &InsecureVerifier{now: time.Now} }

func (v *InsecureVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if exp != nil && v.now().After(exp.Time) {
		return nil, errors.New("token is expired")
	}
	return claimsToken(claims), nil
}
