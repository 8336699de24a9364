package validation_test

import (
	"context"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/ports"
	"github.com/sufield/bst/internal/testhelpers"
	"github.com/sufield/bst/internal/validation"
)

type stubAssertion struct{ subject string }

func (a stubAssertion) TokenType() string { return "urn:test:assertion" }
func (a stubAssertion) Subject() string   { return a.subject }

func chainFixture(t *testing.T) []*x509.Certificate {
	t.Helper()
	ca := testhelpers.NewCA(t, "Root")
	leaf := ca.IssueLeaf(t, pkix.Name{CommonName: "alice", Organization: []string{"Example"}})
	return []*x509.Certificate{leaf.Cert, ca.Cert}
}

func TestApply_NoValidator(t *testing.T) {
	t.Parallel()

	chain := chainFixture(t)

	tests := []struct {
		name          string
		certs         []*x509.Certificate
		wantPrincipal string
	}{
		{name: "non-empty chain", certs: chain, wantPrincipal: "CN=alice,O=Example"},
		{name: "absent chain", certs: nil},
		{name: "empty chain", certs: []*x509.Certificate{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cred := domain.NewCredential(domain.NewX509Chain("", nil), tt.certs)

			out, err := validation.Apply(context.Background(), cred, nil)

			require.NoError(t, err)
			assert.False(t, out.Validated)
			assert.Nil(t, out.TransformedToken)
			if tt.wantPrincipal == "" {
				assert.Nil(t, out.Principal)
				return
			}
			require.NotNil(t, out.Principal)
			assert.IsType(t, &domain.X500Principal{}, out.Principal)
			assert.Equal(t, tt.wantPrincipal, out.Principal.Name())
		})
	}
}

func TestApply_TransformedTokenWins(t *testing.T) {
	t.Parallel()

	for _, certs := range [][]*x509.Certificate{chainFixture(t), nil} {
		cred := domain.NewCredential(domain.NewRawBinary("urn:x", "", nil), certs)
		v := ports.ValidatorFunc(func(_ context.Context, c *domain.Credential) (*domain.Credential, error) {
			c.SetPrincipal(domain.NewKerberosPrincipal("ignored", ""))
			c.SetTransformedToken(stubAssertion{subject: "bob"})
			return c, nil
		})

		out, err := validation.Apply(context.Background(), cred, v)

		require.NoError(t, err)
		assert.True(t, out.Validated)
		require.IsType(t, &domain.TokenPrincipal{}, out.Principal)
		assert.Equal(t, "bob", out.Principal.Name())
		assert.Equal(t, stubAssertion{subject: "bob"}, out.Principal.(*domain.TokenPrincipal).Token())
		assert.Equal(t, stubAssertion{subject: "bob"}, out.TransformedToken)
	}
}

func TestApply_ValidatorPrincipal(t *testing.T) {
	t.Parallel()

	cred := domain.NewCredential(domain.NewX509Chain("", nil), chainFixture(t))
	v := ports.ValidatorFunc(func(_ context.Context, c *domain.Credential) (*domain.Credential, error) {
		c.SetPrincipal(domain.NewSPIFFEPrincipal("spiffe://example.org/api", "example.org"))
		return c, nil
	})

	out, err := validation.Apply(context.Background(), cred, v)

	require.NoError(t, err)
	assert.True(t, out.Validated)
	assert.Equal(t, "spiffe://example.org/api", out.Principal.Name())
	assert.Nil(t, out.TransformedToken)
}

func TestApply_ValidatorSetsNothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    ports.ValidatorFunc
	}{
		{
			name: "returns credential",
			v: func(_ context.Context, c *domain.Credential) (*domain.Credential, error) {
				return c, nil
			},
		},
		{
			name: "returns nil",
			v: func(context.Context, *domain.Credential) (*domain.Credential, error) {
				return nil, nil
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cred := domain.NewCredential(domain.NewX509Chain("", nil), chainFixture(t))

			out, err := validation.Apply(context.Background(), cred, tt.v)

			require.NoError(t, err)
			assert.True(t, out.Validated)
			assert.Equal(t, "CN=alice,O=Example", out.Principal.Name())
		})
	}

	t.Run("no certificates", func(t *testing.T) {
		t.Parallel()

		cred := domain.NewCredential(domain.NewRawBinary("urn:x", "", nil), nil)
		out, err := validation.Apply(context.Background(), cred, ports.ValidatorFunc(
			func(_ context.Context, c *domain.Credential) (*domain.Credential, error) { return c, nil }))

		require.NoError(t, err)
		assert.True(t, out.Validated)
		assert.Nil(t, out.Principal)
	})
}

func TestApply_Rejection(t *testing.T) {
	t.Parallel()

	plain := errors.New("denied")
	wrapped := validation.Chain(ports.ValidatorFunc(func(context.Context, *domain.Credential) (*domain.Credential, error) {
		return nil, plain
	}))

	cred := domain.NewCredential(domain.NewRawBinary("urn:x", "", nil), nil)
	_, err := validation.Apply(context.Background(), cred, wrapped)

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.ErrorIs(t, err, plain)

	_, err = validation.Apply(context.Background(), nil, nil)
	assert.True(t, domain.IsValidation(err))
}

func TestChain_PassesCredentialAlong(t *testing.T) {
	t.Parallel()

	var order []string
	first := ports.ValidatorFunc(func(_ context.Context, c *domain.Credential) (*domain.Credential, error) {
		order = append(order, "first")
		c.SetPrincipal(domain.NewKerberosPrincipal("alice", "EXAMPLE.ORG"))
		return c, nil
	})
	second := ports.ValidatorFunc(func(_ context.Context, c *domain.Credential) (*domain.Credential, error) {
		order = append(order, "second")
		c.SetTransformedToken(stubAssertion{subject: c.Principal().Name()})
		return c, nil
	})

	cred := domain.NewCredential(domain.NewRawBinary("urn:x", "", nil), nil)
	out, err := validation.Apply(context.Background(), cred, validation.Chain(first, second))

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, "alice@EXAMPLE.ORG", out.Principal.Name())
}

func TestTable(t *testing.T) {
	t.Parallel()

	table := validation.NewTable()
	v := ports.ValidatorFunc(func(_ context.Context, c *domain.Credential) (*domain.Credential, error) { return c, nil })

	_, ok := table.Lookup(domain.BinarySecurityTokenName)
	assert.False(t, ok)

	table.Register(domain.BinarySecurityTokenName, v)
	got, ok := table.Lookup(domain.BinarySecurityTokenName)
	assert.True(t, ok)
	assert.NotNil(t, got)
	assert.Equal(t, 1, table.Len())

	_, ok = table.Lookup(domain.QName{Namespace: "urn:other", Local: domain.BinarySecurityTokenLocalName})
	assert.False(t, ok, "lookup is by namespace and local name")

	table.Register(domain.BinarySecurityTokenName, nil)
	assert.Zero(t, table.Len())

	var empty *validation.Table
	_, ok = empty.Lookup(domain.BinarySecurityTokenName)
	assert.False(t, ok)
}
