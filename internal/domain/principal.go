package domain

import (
	"crypto/x509/pkix"
)

// Principal is the authenticated identity handed to authorization.
type Principal interface {
	// Name returns the principal's display name.
	Name() string
}

// TransformedToken is a token a validator derived from the binary security
// token, e.g. an assertion issued in exchange for it.
type TransformedToken interface {
	// TokenType identifies the token format (e.g. "urn:ietf:params:oauth:token-type:jwt").
	TokenType() string
	// Subject returns the identity the token asserts.
	Subject() string
}

// X500Principal is the subject distinguished name of a certificate.
type X500Principal struct {
	subject pkix.Name
}

// NewX500Principal creates a principal from a certificate subject.
func NewX500Principal(subject pkix.Name) *X500Principal {
	return &X500Principal{subject: subject}
}

// Name returns the RFC 2253 form of the distinguished name.
func (p *X500Principal) Name() string {
	return p.subject.String()
}

// Subject returns the distinguished name.
func (p *X500Principal) Subject() pkix.Name {
	return p.subject
}

// TokenPrincipal is a principal derived from a transformed token.
type TokenPrincipal struct {
	token TransformedToken
}

// NewTokenPrincipal wraps a transformed token.
func NewTokenPrincipal(token TransformedToken) *TokenPrincipal {
	return &TokenPrincipal{token: token}
}

// Name returns the subject asserted by the wrapped token.
func (p *TokenPrincipal) Name() string {
	return p.token.Subject()
}

// Token returns the wrapped transformed token.
func (p *TokenPrincipal) Token() TransformedToken {
	return p.token
}

// SPIFFEPrincipal is a workload identity taken from a certificate URI SAN.
// Parsing and verification of the ID happen in adapters.
type SPIFFEPrincipal struct {
	id          string
	trustDomain string
}

// NewSPIFFEPrincipal creates a principal from an already verified SPIFFE ID.
func NewSPIFFEPrincipal(id, trustDomain string) *SPIFFEPrincipal {
	return &SPIFFEPrincipal{id: id, trustDomain: trustDomain}
}

// Name returns the SPIFFE ID, e.g. "spiffe://example.org/service".
func (p *SPIFFEPrincipal) Name() string {
	return p.id
}

// TrustDomain returns the trust domain of the ID.
func (p *SPIFFEPrincipal) TrustDomain() string {
	return p.trustDomain
}

// KerberosPrincipal is the client principal of a decrypted Kerberos ticket.
type KerberosPrincipal struct {
	client string
	realm  string
}

// NewKerberosPrincipal creates a Kerberos principal.
func NewKerberosPrincipal(client, realm string) *KerberosPrincipal {
	return &KerberosPrincipal{client: client, realm: realm}
}

// Name returns client@REALM, or just the client when no realm is known.
func (p *KerberosPrincipal) Name() string {
	if p.realm == "" {
		return p.client
	}
	return p.client + "@" + p.realm
}

// Realm returns the Kerberos realm.
func (p *KerberosPrincipal) Realm() string {
	return p.realm
}

var (
	_ Principal = (*X500Principal)(nil)
	_ Principal = (*TokenPrincipal)(nil)
	_ Principal = (*SPIFFEPrincipal)(nil)
	_ Principal = (*KerberosPrincipal)(nil)
)
