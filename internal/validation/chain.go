package validation

import (
	"context"

	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/ports"
)

// Chain runs validators in order. Each one receives the credential returned
// by the previous; the first error stops the chain.
func Chain(validators ...ports.Validator) ports.Validator {
	return ports.ValidatorFunc(func(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
		for _, v := range validators {
			out, err := v.Validate(ctx, cred)
			if err != nil {
				return nil, err
			}
			if out != nil {
				cred = out
			}
		}
		return cred, nil
	})
}
