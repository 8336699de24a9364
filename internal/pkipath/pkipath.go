// Package pkipath encodes and decodes X.509 PkiPath structures.
//
// A PkiPath is the DER encoding of
//
//	PkiPath ::= SEQUENCE OF Certificate
//
// ordered from the certificate closest to the trust anchor down to the end
// entity. Callers in this module work with chains ordered the other way round
// (index 0 is the end entity), so Decode reverses and Encode reverses back:
// a leaf-first chain survives Encode followed by Decode unchanged.
package pkipath

import (
	"crypto/x509"
	"errors"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// ErrMalformed indicates the bytes are not a PkiPath.
var ErrMalformed = errors.New("malformed PkiPath")

// ErrEmpty indicates a syntactically valid PkiPath with no certificate.
var ErrEmpty = errors.New("empty PkiPath")

// Decode parses a PkiPath and returns the chain end entity first.
func Decode(der []byte) ([]*x509.Certificate, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) || !input.Empty() {
		return nil, ErrMalformed
	}

	var anchorFirst []*x509.Certificate
	for !seq.Empty() {
		var elem cryptobyte.String
		if !seq.ReadASN1Element(&elem, asn1.SEQUENCE) {
			return nil, ErrMalformed
		}
		cert, err := x509.ParseCertificate(elem)
		if err != nil {
			return nil, fmt.Errorf("%w: certificate %d: %v", ErrMalformed, len(anchorFirst), err)
		}
		anchorFirst = append(anchorFirst, cert)
	}
	if len(anchorFirst) == 0 {
		return nil, ErrEmpty
	}

	chain := make([]*x509.Certificate, len(anchorFirst))
	for i, cert := range anchorFirst {
		chain[len(anchorFirst)-1-i] = cert
	}
	return chain, nil
}

// Encode builds a PkiPath from a chain ordered end entity first.
func Encode(chain []*x509.Certificate) ([]byte, error) {
	if len(chain) == 0 {
		return nil, ErrEmpty
	}
	for i, cert := range chain {
		if cert == nil {
			return nil, fmt.Errorf("%w: certificate %d is nil", ErrMalformed, i)
		}
	}
	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for i := len(chain) - 1; i >= 0; i-- {
			b.AddBytes(chain[i].Raw)
		}
	})
	return b.Bytes()
}
