// Package validation runs the optional validator for a token and selects the
// resulting principal.
//
// Principal selection, highest priority first:
//  1. a transformed token returned by the validator (wrapped in a TokenPrincipal)
//  2. a principal the validator set on the credential
//  3. the subject of the first certificate of the chain
//  4. none
//
// Rule 3 also applies when no validator is configured for the element, in
// which case the result is not marked validated.
package validation

import (
	"context"
	"crypto/x509"
	"fmt"

	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/ports"
)

// Outcome is what the validation stage contributes to a ProcessingResult.
type Outcome struct {
	Principal        domain.Principal
	TransformedToken domain.TransformedToken
	// Validated is true iff a validator was invoked and accepted the credential.
	Validated bool
}

// Apply runs v (which may be nil) on cred and selects the principal.
//
// A validator rejection is returned wrapping domain.ErrValidation.
func Apply(ctx context.Context, cred *domain.Credential, v ports.Validator) (Outcome, error) {
	if cred == nil {
		return Outcome{}, fmt.Errorf("%w: credential is nil", domain.ErrValidation)
	}
	if v == nil {
		return Outcome{Principal: subjectPrincipal(cred.Certificates())}, nil
	}

	out, err := v.Validate(ctx, cred)
	if err != nil {
		if domain.IsValidation(err) {
			return Outcome{}, err
		}
		return Outcome{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if out == nil {
		out = cred
	}

	if tt := out.TransformedToken(); tt != nil {
		return Outcome{
			Principal:        domain.NewTokenPrincipal(tt),
			TransformedToken: tt,
			Validated:        true,
		}, nil
	}
	if p := out.Principal(); p != nil {
		return Outcome{Principal: p, Validated: true}, nil
	}
	return Outcome{Principal: subjectPrincipal(cred.Certificates()), Validated: true}, nil
}

// subjectPrincipal returns the subject of chain[0], or nil for an absent or empty chain.
func subjectPrincipal(chain []*x509.Certificate) domain.Principal {
	if len(chain) == 0 || chain[0] == nil {
		return nil
	}
	return domain.NewX500Principal(chain[0].Subject)
}
