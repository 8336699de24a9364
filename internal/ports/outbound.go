package ports

import (
	"context"
	"crypto/x509"

	"github.com/sufield/bst/internal/domain"
)

// TrustMaterialProvider materializes certificates from the bytes carried by a token.
//
// Two providers are usually configured, one associated with signature
// verification and one with decryption; the caller picks which one to use.
// Providers decode and locate certificate material. Path validation against
// trust anchors is a separate concern (see ChainVerifier).
//
// Error Contract:
//   - LoadCertificate returns an error wrapping domain.ErrCertificateDecode
//     when der is not a parseable certificate
//   - LoadCertPath returns an error wrapping domain.ErrCertificateDecode when
//     the path is malformed or contains no certificate
//   - Both return ErrProviderUnavailable (wrapped) when the backing store is closed
type TrustMaterialProvider interface {
	// LoadCertificate decodes one DER certificate.
	LoadCertificate(der []byte) (*x509.Certificate, error)

	// LoadCertPath decodes a PkiPath into a chain ordered end entity first.
	LoadCertPath(pkiPath []byte) ([]*x509.Certificate, error)
}

// ChainVerifier validates a certificate chain against configured trust anchors.
//
// Error Contract:
//   - Verify returns ErrTrustBundleNotFound (wrapped) when no anchors are configured
//   - Verify returns ErrChainNotTrusted (wrapped) when path building fails
type ChainVerifier interface {
	// Verify checks that chain[0] chains up to a trust anchor, using
	// chain[1:] as intermediates.
	Verify(ctx context.Context, chain []*x509.Certificate) error
}

// Validator is a pluggable check run on a credential after certificate resolution.
//
// A validator may set a principal or a transformed token on the credential
// and return it (or a replacement). Returning an error rejects the token.
//
// Error Contract:
//   - Validate returns an error wrapping domain.ErrValidation on rejection
type Validator interface {
	Validate(ctx context.Context, cred *domain.Credential) (*domain.Credential, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, cred *domain.Credential) (*domain.Credential, error)

// Validate calls f(ctx, cred).
func (f ValidatorFunc) Validate(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	return f(ctx, cred)
}

// KerberosSession is the result of decrypting an AP-REQ.
type KerberosSession struct {
	// Client is the client principal name (without realm).
	Client string
	// Realm is the client realm.
	Realm string
	// SessionKey is the ticket session key. Never logged.
	SessionKey []byte
}

// TicketDecrypter decrypts Kerberos AP-REQ messages with the service keys.
// Implementations live outside this module (keytab handling is out of scope).
//
// Error Contract:
//   - Decrypt returns an error when the ticket cannot be decrypted or is expired
type TicketDecrypter interface {
	Decrypt(ctx context.Context, apReq []byte) (*KerberosSession, error)
}
