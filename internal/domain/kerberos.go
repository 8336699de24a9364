package domain

import (
	"bytes"
	encasn1 "encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// KerberosMechOID is the GSS-API mechanism OID for Kerberos V5 (RFC 1964).
var KerberosMechOID = encasn1.ObjectIdentifier{1, 2, 840, 113554, 1, 2, 2}

const (
	// gssInitialTokenTag is [APPLICATION 0] constructed (RFC 2743 section 3.1).
	gssInitialTokenTag = asn1.Tag(0x60)
	// apReqTag is KRB_AP_REQ, [APPLICATION 14] constructed.
	apReqTag = asn1.Tag(0x6e)
)

// gssTokenIDAPReq is the TOK_ID that prefixes an AP-REQ inside GSS framing.
var gssTokenIDAPReq = []byte{0x01, 0x00}

// KerberosTicket carries a Kerberos V5 AP-REQ, optionally wrapped in GSS-API framing.
//
// The payload is kept as received. The ticket is never rejected at decode
// time; APRequest parses the framing on demand for validators that need it.
// Decryption is delegated to an external collaborator.
type KerberosTicket struct {
	binaryToken
	gssWrapped bool
	revision   KerberosRevision
}

// NewKerberosTicket creates a KerberosTicket for one of the Kerberos value types.
// Wrapping and revision are derived from valueType.
func NewKerberosTicket(valueType, encodingType string, data []byte) *KerberosTicket {
	gss, rev := kerberosFlags(valueType)
	return &KerberosTicket{
		binaryToken: newBinaryToken(valueType, encodingType, data),
		gssWrapped:  gss,
		revision:    rev,
	}
}

func (t *KerberosTicket) Kind() Kind                  { return KindKerberosTicket }
func (t *KerberosTicket) Accept(v TokenVisitor) error { return v.VisitKerberosTicket(t) }

// GSSWrapped reports whether the value type declares GSS-API framing.
func (t *KerberosTicket) GSSWrapped() bool {
	return t.gssWrapped
}

// Revision returns the Kerberos RFC pinned by the value type.
func (t *KerberosTicket) Revision() KerberosRevision {
	return t.revision
}

// APRequest returns the bare KRB_AP_REQ message.
//
// For GSS-wrapped value types the initial context token framing is removed:
// the mechanism must be Kerberos V5 and the inner token must carry the AP-REQ
// TOK_ID. Returns ErrTokenFormat (wrapped) when the bytes do not have the
// declared shape.
func (t *KerberosTicket) APRequest() ([]byte, error) {
	data := t.data
	if t.gssWrapped {
		inner, err := unwrapGSS(data)
		if err != nil {
			return nil, err
		}
		data = inner
	}

	s := cryptobyte.String(data)
	if !s.PeekASN1Tag(apReqTag) {
		return nil, fmt.Errorf("%w: kerberos payload is not a KRB_AP_REQ", ErrTokenFormat)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func unwrapGSS(data []byte) ([]byte, error) {
	s := cryptobyte.String(data)
	var inner cryptobyte.String
	if !s.ReadASN1(&inner, gssInitialTokenTag) || !s.Empty() {
		return nil, fmt.Errorf("%w: malformed GSS initial context token", ErrTokenFormat)
	}

	var mech encasn1.ObjectIdentifier
	if !inner.ReadASN1ObjectIdentifier(&mech) {
		return nil, fmt.Errorf("%w: missing GSS mechanism OID", ErrTokenFormat)
	}
	if !mech.Equal(KerberosMechOID) {
		return nil, fmt.Errorf("%w: unexpected GSS mechanism %s", ErrTokenFormat, mech)
	}

	var tokID []byte
	if !inner.ReadBytes(&tokID, len(gssTokenIDAPReq)) || !bytes.Equal(tokID, gssTokenIDAPReq) {
		return nil, fmt.Errorf("%w: GSS token is not an AP-REQ", ErrTokenFormat)
	}
	return []byte(inner), nil
}
