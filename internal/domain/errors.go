package domain

import (
	"errors"
)

// Sentinel errors for the three failure classes of token processing.
// Use with errors.Is() for checking and fmt.Errorf("%w", ...) for wrapping with context.
//
// Any of these aborts processing of the current token before anything is
// registered in the document context.

var (
	// ErrTokenFormat indicates a malformed payload encoding or a construct
	// rejected by the strict (Basic Security Profile) mode.
	ErrTokenFormat = errors.New("invalid binary security token")

	// ErrCertificateDecode indicates the trust-material provider could not
	// materialize the certificate(s) declared by the token.
	ErrCertificateDecode = errors.New("certificate decode failed")

	// ErrValidation indicates a pluggable validator rejected the credential.
	ErrValidation = errors.New("credential validation failed")
)

// IsTokenFormat reports whether err is (or wraps) ErrTokenFormat.
func IsTokenFormat(err error) bool {
	return errors.Is(err, ErrTokenFormat)
}

// IsCertificateDecode reports whether err is (or wraps) ErrCertificateDecode.
func IsCertificateDecode(err error) bool {
	return errors.Is(err, ErrCertificateDecode)
}

// IsValidation reports whether err is (or wraps) ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
