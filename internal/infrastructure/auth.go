package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/verum/internal/config"
	"github.com/JaimeStill/verum/pkg/lifecycle"
)

// ErrAuthNotReady is returned while the identity provider has not been discovered.
var ErrAuthNotReady = errors.New("identity provider not discovered")

// oidcVerifier discovers the issuer during startup and verifies bearer tokens
// against it afterwards.
type oidcVerifier struct {
	issuer   string
	clientID string
	logger   *slog.Logger
	verifier atomic.Pointer[oidc.IDTokenVerifier]
}

func newOIDCVerifier(cfg *config.AuthConfig, logger *slog.Logger) *oidcVerifier {
	return &oidcVerifier{
		issuer:   cfg.Issuer,
		clientID: cfg.ClientID,
		logger:   logger.With("system", "auth"),
	}
}

func (v *oidcVerifier) Start(lc *lifecycle.Coordinator) {
	lc.OnStartup("auth", func(ctx context.Context) error {
		provider, err := oidc.NewProvider(ctx, v.issuer)
		if err != nil {
			v.logger.Error("issuer discovery failed", "issuer", v.issuer, "error", err)
			return fmt.Errorf("discover issuer: %w", err)
		}

		v.verifier.Store(provider.Verifier(&oidc.Config{ClientID: v.clientID}))
		v.logger.Info("identity provider discovered", "issuer", v.issuer)
		return nil
	})
}

func (v *oidcVerifier) Ready() bool {
	return v.verifier.Load() != nil
}

func (v *oidcVerifier) Verify(ctx context.Context, raw string) (*oidc.IDToken, error) {
	verifier := v.verifier.Load()
	if verifier == nil {
		return nil, ErrAuthNotReady
	}
	return verifier.Verify(ctx, raw)
}
