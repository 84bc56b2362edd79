package oidc

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/wordlink/wordlink/internal/config"
	"github.com/wordlink/wordlink/pkg/logger"
	"github.com/wordlink/wordlink/pkg/middleware"
)

// Verifier checks ID tokens against an OIDC provider's published keys.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewVerifier discovers the provider at issuer. An empty clientID skips the audience check.
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: clientID, SkipClientIDCheck: clientID == ""})
	return &Verifier{verifier: verifier}, nil
}

func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idToken, nil
}

// New picks the verifier for cfg: the provider's when an issuer is set,
// the insecure parser when ALLOW_INSECURE_TOKEN is on (also as a fallback
// when discovery fails), and nil when authentication is disabled.
func New(ctx context.Context, cfg config.OIDCConfig) (middleware.Verifier, error) {
	if cfg.Issuer != "" {
		v, err := NewVerifier(ctx, cfg.Issuer, cfg.ClientID)
		if err == nil {
			logger.Infof("OIDC verifier ready (issuer %s)", cfg.Issuer)
			return v, nil
		}
		if !cfg.AllowInsecure {
			return nil, err
		}
		logger.Warnf("OIDC discovery failed, falling back to insecure token parsing: %v", err)
		return NewInsecureVerifier(), nil
	}
	if cfg.AllowInsecure {
		logger.Warnf("ALLOW_INSECURE_TOKEN=true: bearer tokens are parsed without signature checks")
		return NewInsecureVerifier(), nil
	}
	return nil, nil
}
