package dto_test

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/dto"
	"github.com/sufield/bst/internal/testhelpers"
)

type compactAssertion struct{}

func (compactAssertion) TokenType() string { return "urn:test" }
func (compactAssertion) Subject() string   { return "svc" }
func (compactAssertion) Compact() string   { return "a.b.c" }

func TestFromResult_X509(t *testing.T) {
	t.Parallel()

	ca := testhelpers.NewCA(t, "Root")
	leaf := ca.IssueLeaf(t, pkix.Name{CommonName: "api"}, "spiffe://example.org/api")
	r := domain.NewProcessingResult(domain.ResultFields{
		Action:       domain.ActionBST,
		Token:        domain.NewX509Single(domain.EncodingBase64Binary, leaf.Cert.Raw),
		Certificates: []*x509.Certificate{leaf.Cert},
		ID:           "X509-1",
		Principal:    domain.NewX500Principal(leaf.Cert.Subject),
	})

	got := dto.FromResult(r)

	assert.Equal(t, "X509-1", got.ID)
	assert.Equal(t, "BinarySecurityToken", got.Action)
	assert.Equal(t, "X509Single", got.Kind)
	assert.Equal(t, domain.ValueTypeX509V3, got.ValueType)
	assert.False(t, got.Validated)
	require.NotNil(t, got.Principal)
	assert.Equal(t, dto.Principal{Type: "x500", Name: "CN=api"}, *got.Principal)
	require.Len(t, got.Certificates, 1)
	assert.Equal(t, []string{"spiffe://example.org/api"}, got.Certificates[0].URIs)
	assert.Len(t, got.Certificates[0].SHA256, 64)
	assert.Nil(t, got.Transformed)
	assert.Nil(t, got.Kerberos)
}

func TestFromResult_KerberosAndTransformed(t *testing.T) {
	t.Parallel()

	tt := compactAssertion{}
	r := domain.NewProcessingResult(domain.ResultFields{
		Action:           domain.ActionBST,
		Token:            domain.NewKerberosTicket(domain.ValueTypeGSSKerberosAPReq1510, "", nil),
		Validated:        true,
		Principal:        domain.NewTokenPrincipal(tt),
		TransformedToken: tt,
	})

	got := dto.FromResult(r)

	assert.Empty(t, got.Certificates)
	require.NotNil(t, got.Kerberos)
	assert.True(t, got.Kerberos.GSSWrapped)
	assert.Equal(t, domain.KerberosRevisionRFC1510.String(), got.Kerberos.Revision)
	require.NotNil(t, got.Transformed)
	assert.Equal(t, dto.Transformed{Type: "urn:test", Subject: "svc", Value: "a.b.c"}, *got.Transformed)
	assert.Equal(t, "token", got.Principal.Type)
}

func TestFromResults_KeepsOrder(t *testing.T) {
	t.Parallel()

	mk := func(id string) *domain.ProcessingResult {
		return domain.NewProcessingResult(domain.ResultFields{
			Action: domain.ActionBST,
			Token:  domain.NewRawBinary("urn:x", "", nil),
			ID:     id,
		})
	}

	got := dto.FromResults([]*domain.ProcessingResult{mk("a"), mk("b")})

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.NotNil(t, dto.FromResults(nil))
}

func TestFromToken(t *testing.T) {
	t.Parallel()

	elem := domain.NewEncodedToken(domain.BinarySecurityTokenName, domain.ValueTypeGSSKerberosAPReq,
		domain.EncodingBase64Binary, "Krb-1", "")
	tok := domain.NewKerberosTicket(domain.ValueTypeGSSKerberosAPReq, domain.EncodingBase64Binary, []byte{1, 2, 3})

	got := dto.FromToken(elem, tok)

	assert.Equal(t, "Krb-1", got.ID)
	assert.Equal(t, tok.Kind().String(), got.Kind)
	assert.Equal(t, 3, got.Size)
	require.NotNil(t, got.Kerberos)
	assert.True(t, got.Kerberos.GSSWrapped)

	raw := dto.FromToken(elem, domain.NewRawBinary("urn:custom", "", []byte{9}))
	assert.Nil(t, raw.Kerberos)
	assert.Equal(t, "urn:custom", raw.ValueType)
}
