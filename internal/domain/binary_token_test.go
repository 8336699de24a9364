package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sufield/bst/internal/domain"
)

// kindVisitor records which variant method was called.
type kindVisitor struct {
	visited string
}

func (v *kindVisitor) VisitRawBinary(*domain.RawBinary) error {
	v.visited = "raw"
	return nil
}

func (v *kindVisitor) VisitX509Single(*domain.X509Single) error {
	v.visited = "single"
	return nil
}

func (v *kindVisitor) VisitX509Chain(*domain.X509Chain) error {
	v.visited = "chain"
	return nil
}

func (v *kindVisitor) VisitKerberosTicket(*domain.KerberosTicket) error {
	v.visited = "kerberos"
	return nil
}

func TestBinaryToken_AcceptDispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		tok       domain.BinaryToken
		wantVisit string
		wantKind  domain.Kind
		wantVT    string
	}{
		{"raw", domain.NewRawBinary("urn:x", "", []byte{1}), "raw", domain.KindRawBinary, "urn:x"},
		{"single", domain.NewX509Single("", []byte{1}), "single", domain.KindX509Single, domain.ValueTypeX509V3},
		{"chain", domain.NewX509Chain("", []byte{1}), "chain", domain.KindX509Chain, domain.ValueTypePKIPath},
		{"kerberos", domain.NewKerberosTicket(domain.ValueTypeKerberosAPReq, "", []byte{1}), "kerberos", domain.KindKerberosTicket, domain.ValueTypeKerberosAPReq},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := &kindVisitor{}
			assert.NoError(t, tt.tok.Accept(v))
			assert.Equal(t, tt.wantVisit, v.visited)
			assert.Equal(t, tt.wantKind, tt.tok.Kind())
			assert.Equal(t, tt.wantVT, tt.tok.ValueType())
		})
	}
}

func TestBinaryToken_BytesAreCopied(t *testing.T) {
	t.Parallel()

	src := []byte{1, 2, 3}
	tok := domain.NewX509Single(domain.EncodingBase64Binary, src)

	// Mutating the constructor input does not leak into the token.
	src[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, tok.Bytes())

	// Mutating a returned slice does not leak either.
	out := tok.CertificateBytes()
	out[1] = 9
	assert.Equal(t, []byte{1, 2, 3}, tok.Bytes())
	assert.Equal(t, domain.EncodingBase64Binary, tok.EncodingType())
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RawBinary", domain.KindRawBinary.String())
	assert.Equal(t, "X509Single", domain.KindX509Single.String())
	assert.Equal(t, "X509Chain", domain.KindX509Chain.String())
	assert.Equal(t, "KerberosTicket", domain.KindKerberosTicket.String())
}

func TestEncodedToken(t *testing.T) {
	t.Parallel()

	tok := domain.NewEncodedToken(domain.BinarySecurityTokenName, domain.ValueTypeX509V3, "", "X509Token", " TUlJ ")

	assert.Equal(t, "{"+domain.WSSENamespace+"}BinarySecurityToken", tok.Name().String())
	assert.Equal(t, domain.ValueTypeX509V3, tok.ValueType())
	assert.Empty(t, tok.EncodingType())
	assert.True(t, tok.HasID())
	assert.Equal(t, "X509Token", tok.ID())
	assert.Equal(t, " TUlJ ", tok.Payload())

	anonymous := domain.NewEncodedToken(domain.QName{Local: "Token"}, "", "", "", "")
	assert.False(t, anonymous.HasID())
	assert.Equal(t, "Token", anonymous.Name().String())
}
