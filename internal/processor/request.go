package processor

import (
	"github.com/sufield/bst/internal/ports"
	"github.com/sufield/bst/internal/validation"
)

// RequestData is the configuration one message is processed with.
//
// It is read-only once built and may be shared by concurrent documents.
type RequestData struct {
	// StrictProfile enforces the WS-I Basic Security Profile rules on token
	// attributes (see decoder.Decode).
	StrictProfile bool
	// Validators maps element names to validators. Nil means none.
	Validators *validation.Table
	// SigProvider is the trust material used for signature verification.
	SigProvider ports.TrustMaterialProvider
	// DecProvider is the trust material used for decryption.
	DecProvider ports.TrustMaterialProvider
}

// TrustProvider returns the signature-side provider, falling back to the
// decryption-side one. Returns nil when neither is configured.
func (r *RequestData) TrustProvider() ports.TrustMaterialProvider {
	if r.SigProvider != nil {
		return r.SigProvider
	}
	return r.DecProvider
}
