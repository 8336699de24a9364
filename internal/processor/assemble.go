package processor

import (
	"crypto/x509"

	"github.com/sufield/bst/internal/assert"
	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/validation"
	"github.com/sufield/bst/internal/wsdoc"
)

// assemble builds the result of one element and registers it in doc.
// Nothing is written to doc unless the result is complete.
func assemble(
	elem *domain.EncodedToken,
	tok domain.BinaryToken,
	chain []*x509.Certificate,
	outcome validation.Outcome,
	doc *wsdoc.DocInfo,
) (*domain.ProcessingResult, error) {
	result := domain.NewProcessingResult(domain.ResultFields{
		Action:           domain.ActionBST,
		Token:            tok,
		Certificates:     chain,
		ID:               elem.ID(),
		Validated:        outcome.Validated,
		Principal:        outcome.Principal,
		TransformedToken: outcome.TransformedToken,
	})

	assert.Invariant(outcome.TransformedToken == nil || outcome.Validated,
		"element %q: transformed token without a validator", elem.ID())
	assert.Invariant(len(chain) == 0 || chain[0] != nil,
		"element %q: chain has a nil end entity", elem.ID())

	if err := doc.Register(elem, result); err != nil {
		return nil, err
	}
	return result, nil
}
