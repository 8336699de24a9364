package domain

import "crypto/x509"

// Action tags the processor that produced a result.
type Action int

// ActionBST marks results of binary security token processing.
const ActionBST Action = 0x1000

// String returns the action label.
func (a Action) String() string {
	if a == ActionBST {
		return "BinarySecurityToken"
	}
	return "unknown"
}

// ResultFields collects the values of a ProcessingResult.
type ResultFields struct {
	Action           Action
	Token            BinaryToken
	Certificates     []*x509.Certificate
	ID               string
	Validated        bool
	Principal        Principal
	TransformedToken TransformedToken
}

// ProcessingResult is the immutable outcome of processing one token element.
//
// Certificates is nil when the token carried no certificate material. ID is
// "" when the element had no wsu:Id. Principal and TransformedToken are nil
// when not established.
//
// Concurrency: Safe for concurrent reads (immutable value object).
type ProcessingResult struct {
	action      Action
	token       BinaryToken
	certs       []*x509.Certificate
	id          string
	validated   bool
	principal   Principal
	transformed TransformedToken
}

// NewProcessingResult builds a result. The chain is copied.
func NewProcessingResult(f ResultFields) *ProcessingResult {
	return &ProcessingResult{
		action:      f.Action,
		token:       f.Token,
		certs:       copyChain(f.Certificates),
		id:          f.ID,
		validated:   f.Validated,
		principal:   f.Principal,
		transformed: f.TransformedToken,
	}
}

func (r *ProcessingResult) Action() Action     { return r.action }
func (r *ProcessingResult) Token() BinaryToken { return r.token }
func (r *ProcessingResult) ID() string         { return r.id }
func (r *ProcessingResult) HasID() bool        { return r.id != "" }
func (r *ProcessingResult) Validated() bool    { return r.validated }
func (r *ProcessingResult) Principal() Principal {
	return r.principal
}

// Certificates returns a copy of the chain (index 0 is the end entity), or nil.
func (r *ProcessingResult) Certificates() []*x509.Certificate {
	return copyChain(r.certs)
}

// TransformedToken returns the token a validator derived, or nil.
func (r *ProcessingResult) TransformedToken() TransformedToken {
	return r.transformed
}
