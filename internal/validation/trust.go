package validation

import (
	"context"
	"fmt"

	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/ports"
)

// TrustValidator checks that the certificate chain leads to a trust anchor.
// It establishes no principal of its own.
type TrustValidator struct {
	verifier ports.ChainVerifier
}

// NewTrustValidator creates a validator backed by verifier.
func NewTrustValidator(verifier ports.ChainVerifier) *TrustValidator {
	return &TrustValidator{verifier: verifier}
}

// Validate implements ports.Validator.
func (v *TrustValidator) Validate(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	chain := cred.Certificates()
	if len(chain) == 0 {
		return nil, fmt.Errorf("trust: %w: token carries no certificate", domain.ErrValidation)
	}
	if v.verifier == nil {
		return nil, fmt.Errorf("trust: %w: no chain verifier configured", domain.ErrValidation)
	}
	if err := v.verifier.Verify(ctx, chain); err != nil {
		return nil, fmt.Errorf("trust: %w: %w", domain.ErrValidation, err)
	}
	return cred, nil
}

var _ ports.Validator = (*TrustValidator)(nil)
