package oidc

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/blesswrld/codesync/backend/go-services/internal/config"
	"github.com/blesswrld/codesync/backend/go-services/pkg/logger"
	"github.com/blesswrld/codesync/backend/go-services/pkg/middleware"
)

// ErrNotConfigured is returned by New when no issuer is configured and
// insecure tokens are not allowed.
var ErrNotConfigured = errors.New("oidc issuer not configured")

// Verifier wraps the OIDC provider and token verifier
type Verifier struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

// NewVerifier creates a new OIDC verifier for the given issuer and client ID
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: clientID})
	return &Verifier{provider: provider, verifier: verifier}, nil
}

// Verify verifies the provided raw ID token using the provided context and returns a middleware.Token
func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idToken, nil
}

// New picks the verifier for cfg: the discovered issuer when configured,
// otherwise the insecure verifier when explicitly allowed.
func New(ctx context.Context, cfg config.KeycloakConfig) (middleware.Verifier, error) {
	if cfg.URL != "" && cfg.ClientID != "" {
		v, err := NewVerifier(ctx, cfg.Issuer(), cfg.ClientID)
		if err == nil {
			return v, nil
		}
		if !cfg.AllowInsecure {
			return nil, err
		}
		logger.Warnf("oidc discovery failed, falling back to insecure verifier: %v", err)
	}
	if cfg.AllowInsecure {
		logger.Warn("enabling insecure OIDC verifier (integration mode)")
		return NewInsecureVerifier(), nil
	}
	return nil, ErrNotConfigured
}
