package domain

import "crypto/x509"

// Credential is the transient bundle passed to a validator.
//
// It starts with the decoded token and its certificate chain; a validator may
// set a principal or a transformed token on it. A Credential lives only for
// the duration of one validation call and is not safe for concurrent use.
type Credential struct {
	token       BinaryToken
	certs       []*x509.Certificate
	principal   Principal
	transformed TransformedToken
}

// NewCredential creates a credential for a token and its chain (nil when absent).
func NewCredential(token BinaryToken, certs []*x509.Certificate) *Credential {
	return &Credential{token: token, certs: copyChain(certs)}
}

// Token returns the binary security token.
func (c *Credential) Token() BinaryToken {
	return c.token
}

// Certificates returns a copy of the chain, or nil when absent.
func (c *Credential) Certificates() []*x509.Certificate {
	return copyChain(c.certs)
}

// Principal returns the principal set by a validator, or nil.
func (c *Credential) Principal() Principal {
	return c.principal
}

// SetPrincipal records the principal a validator established.
func (c *Credential) SetPrincipal(p Principal) {
	c.principal = p
}

// TransformedToken returns the token set by a validator, or nil.
func (c *Credential) TransformedToken() TransformedToken {
	return c.transformed
}

// SetTransformedToken records a token derived by a validator.
func (c *Credential) SetTransformedToken(t TransformedToken) {
	c.transformed = t
}

// copyChain copies the slice, preserving nil (absent) versus empty.
func copyChain(certs []*x509.Certificate) []*x509.Certificate {
	if certs == nil {
		return nil
	}
	out := make([]*x509.Certificate, len(certs))
	copy(out, certs)
	return out
}
