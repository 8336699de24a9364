package testhelpers

import (
	"testing"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/sufield/bst/internal/domain"
)

// APReq builds a structurally plausible KRB_AP_REQ: [APPLICATION 14] wrapping
// a SEQUENCE with an opaque OCTET STRING. It is not a decryptable ticket.
func APReq(t testing.TB, body []byte) []byte {
	t.Helper()

	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(asn1.Tag(0x6e), func(b *cryptobyte.Builder) {
		b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1OctetString(body)
		})
	})
	out, err := b.Bytes()
	if err != nil {
		t.Fatalf("failed to build AP-REQ: %v", err)
	}
	return out
}

// GSSWrap frames an AP-REQ as a GSS-API initial context token for Kerberos V5.
func GSSWrap(t testing.TB, apReq []byte) []byte {
	t.Helper()

	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(asn1.Tag(0x60), func(b *cryptobyte.Builder) {
		b.AddASN1ObjectIdentifier(domain.KerberosMechOID)
		b.AddBytes([]byte{0x01, 0x00})
		b.AddBytes(apReq)
	})
	out, err := b.Bytes()
	if err != nil {
		t.Fatalf("failed to build GSS token: %v", err)
	}
	return out
}
