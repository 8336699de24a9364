// Package resolver extracts the certificate chain carried by a decoded token.
package resolver

import (
	"crypto/x509"
	"fmt"

	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/ports"
)

// Resolve returns the certificate chain of tok, index 0 being the end entity.
//
//   - X509Chain: the provider decodes the PkiPath, order preserved
//   - X509Single: the provider decodes the certificate, returned as a one-element chain
//   - RawBinary, KerberosTicket: nil (no certificate material)
//
// The provider is chosen by the caller; Resolve performs no trust validation.
// Returns an error wrapping domain.ErrCertificateDecode when certificate
// material is declared but cannot be materialized, including when provider is nil.
func Resolve(tok domain.BinaryToken, provider ports.TrustMaterialProvider) ([]*x509.Certificate, error) {
	if tok == nil {
		return nil, fmt.Errorf("%w: token is nil", domain.ErrCertificateDecode)
	}
	v := &chainVisitor{provider: provider}
	if err := tok.Accept(v); err != nil {
		return nil, err
	}
	return v.chain, nil
}

// chainVisitor implements domain.TokenVisitor; one case per variant.
type chainVisitor struct {
	provider ports.TrustMaterialProvider
	chain    []*x509.Certificate
}

func (v *chainVisitor) VisitRawBinary(*domain.RawBinary) error {
	return nil
}

func (v *chainVisitor) VisitKerberosTicket(*domain.KerberosTicket) error {
	return nil
}

func (v *chainVisitor) VisitX509Single(t *domain.X509Single) error {
	if v.provider == nil {
		return errNoProvider
	}
	cert, err := v.provider.LoadCertificate(t.CertificateBytes())
	if err != nil {
		return classify(err)
	}
	if cert == nil {
		return fmt.Errorf("%w: provider returned no certificate", domain.ErrCertificateDecode)
	}
	v.chain = []*x509.Certificate{cert}
	return nil
}

func (v *chainVisitor) VisitX509Chain(t *domain.X509Chain) error {
	if v.provider == nil {
		return errNoProvider
	}
	chain, err := v.provider.LoadCertPath(t.PathBytes())
	if err != nil {
		return classify(err)
	}
	if len(chain) == 0 {
		return fmt.Errorf("%w: provider returned an empty chain", domain.ErrCertificateDecode)
	}
	for i, cert := range chain {
		if cert == nil {
			return fmt.Errorf("%w: provider returned nil certificate at %d", domain.ErrCertificateDecode, i)
		}
	}
	v.chain = chain
	return nil
}

var errNoProvider = fmt.Errorf("%w: no trust material provider configured", domain.ErrCertificateDecode)

// classify guarantees provider failures surface as certificate decode errors.
func classify(err error) error {
	if domain.IsCertificateDecode(err) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrCertificateDecode, err)
}

var _ domain.TokenVisitor = (*chainVisitor)(nil)
