package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/spiffe/go-spiffe/v2/bundle/x509bundle"
	"github.com/spiffe/go-spiffe/v2/spiffeid"
	"github.com/spiffe/go-spiffe/v2/svid/x509svid"

	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/ports"
)

// SPIFFEValidator verifies the chain as an X.509 SVID and sets the SPIFFE ID
// of the end entity as principal.
//
// Concurrency: Safe for concurrent use if the bundle source is (the trust
// store and the SPIRE X509Source both are).
type SPIFFEValidator struct {
	bundleSource x509bundle.Source
	trustDomains []spiffeid.TrustDomain
	clock        func() time.Time
	clockSkew    time.Duration
}

// SPIFFEOption configures a SPIFFEValidator.
type SPIFFEOption func(*SPIFFEValidator)

// WithTrustDomains restricts accepted IDs to the given trust domains.
func WithTrustDomains(tds ...spiffeid.TrustDomain) SPIFFEOption {
	return func(v *SPIFFEValidator) {
		v.trustDomains = append(v.trustDomains, tds...)
	}
}

// WithSPIFFEClock overrides the clock used for the validity window checks.
func WithSPIFFEClock(clock func() time.Time) SPIFFEOption {
	return func(v *SPIFFEValidator) {
		v.clock = clock
	}
}

// NewSPIFFEValidator creates a validator over bundleSource.
// Defaults: 5 minutes clock skew tolerance, time.Now.
func NewSPIFFEValidator(bundleSource x509bundle.Source, opts ...SPIFFEOption) *SPIFFEValidator {
	v := &SPIFFEValidator{
		bundleSource: bundleSource,
		clock:        time.Now,
		clockSkew:    5 * time.Minute,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate implements ports.Validator.
//
// Returns an error wrapping domain.ErrValidation when the chain is absent,
// outside its validity window, not an SVID chain of a known trust domain, or
// from a trust domain not in the allowed list.
func (v *SPIFFEValidator) Validate(_ context.Context, cred *domain.Credential) (*domain.Credential, error) {
	chain := cred.Certificates()
	if len(chain) == 0 {
		return nil, fmt.Errorf("spiffe: %w: token carries no certificate", domain.ErrValidation)
	}
	if v.bundleSource == nil {
		return nil, fmt.Errorf("spiffe: %w: bundle source is nil", domain.ErrValidation)
	}

	// Time checks first: clearer messages than the SDK's path building errors.
	leaf := chain[0]
	now := v.clock()
	if now.Before(leaf.NotBefore.Add(-v.clockSkew)) {
		return nil, fmt.Errorf("spiffe: %w: certificate not yet valid (NotBefore: %s)",
			domain.ErrValidation, leaf.NotBefore.Format(time.RFC3339))
	}
	if now.After(leaf.NotAfter.Add(v.clockSkew)) {
		return nil, fmt.Errorf("spiffe: %w: certificate expired (NotAfter: %s)",
			domain.ErrValidation, leaf.NotAfter.Format(time.RFC3339))
	}

	id, _, err := x509svid.Verify(chain, v.bundleSource)
	if err != nil {
		return nil, fmt.Errorf("spiffe: %w: %w", domain.ErrValidation, err)
	}
	if !v.allowed(id.TrustDomain()) {
		return nil, fmt.Errorf("spiffe: %w: trust domain %s is not accepted", domain.ErrValidation, id.TrustDomain())
	}

	cred.SetPrincipal(domain.NewSPIFFEPrincipal(id.String(), id.TrustDomain().Name()))
	return cred, nil
}

func (v *SPIFFEValidator) allowed(td spiffeid.TrustDomain) bool {
	if len(v.trustDomains) == 0 {
		return true
	}
	for _, allowed := range v.trustDomains {
		if allowed == td {
			return true
		}
	}
	return false
}

var _ ports.Validator = (*SPIFFEValidator)(nil)
