package truststore_test

import (
	"context"
	"crypto/x509"
	"crypto/x509/pkix"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spiffe/go-spiffe/v2/spiffeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/bst/internal/adapters/outbound/truststore"
	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/logging"
	"github.com/sufield/bst/internal/ports"
	"github.com/sufield/bst/internal/testhelpers"
)

var td = spiffeid.RequireTrustDomainFromString("example.org")

func TestStore_LoadCertificate_RoundTrip(t *testing.T) {
	t.Parallel()

	// Arrange
	ca := testhelpers.NewCA(t, "Root")
	leaf := ca.IssueLeaf(t, pkix.Name{CommonName: "alice", Organization: []string{"Example"}})
	store := truststore.New(td, []*x509.Certificate{ca.Cert})

	// Act
	cert, err := store.LoadCertificate(leaf.Cert.Raw)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, leaf.Cert.Raw, cert.Raw, "re-encoding must be byte-identical")
	assert.Equal(t, leaf.Cert.Subject.String(), cert.Subject.String())
}

func TestStore_LoadCertificate_Malformed(t *testing.T) {
	t.Parallel()

	store := truststore.New(td, nil)

	tests := []struct {
		name string
		der  []byte
	}{
		{name: "empty", der: nil},
		{name: "garbage", der: []byte("definitely not DER")},
		{name: "truncated sequence", der: []byte{0x30, 0x82, 0x01}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cert, err := store.LoadCertificate(tt.der)

			require.Error(t, err)
			assert.True(t, domain.IsCertificateDecode(err))
			assert.Nil(t, cert)
		})
	}
}

func TestStore_LoadCertPath_PreservesOrder(t *testing.T) {
	t.Parallel()

	root := testhelpers.NewCA(t, "Root")
	inter := root.NewIntermediate(t, "Issuing")
	leaf := inter.IssueLeaf(t, pkix.Name{CommonName: "bob"})
	store := truststore.New(td, []*x509.Certificate{root.Cert})

	chain, err := store.LoadCertPath(testhelpers.PKIPath(t, leaf.Cert, inter.Cert, root.Cert))

	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, leaf.Cert.Raw, chain[0].Raw)
	assert.Equal(t, inter.Cert.Raw, chain[1].Raw)
	assert.Equal(t, root.Cert.Raw, chain[2].Raw)
}

func TestStore_LoadCertPath_Malformed(t *testing.T) {
	t.Parallel()

	store := truststore.New(td, nil)

	_, err := store.LoadCertPath([]byte{0x30, 0x00})
	assert.True(t, domain.IsCertificateDecode(err), "empty path: %v", err)

	_, err = store.LoadCertPath([]byte("xx"))
	assert.True(t, domain.IsCertificateDecode(err), "garbage path: %v", err)
}

func TestStore_Verify(t *testing.T) {
	t.Parallel()

	root := testhelpers.NewCA(t, "Root")
	inter := root.NewIntermediate(t, "Issuing")
	leaf := inter.IssueLeaf(t, pkix.Name{CommonName: "carol"})
	other := testhelpers.NewCA(t, "Other Root")

	ctx := context.Background()

	t.Run("trusted chain", func(t *testing.T) {
		t.Parallel()
		store := truststore.New(td, []*x509.Certificate{root.Cert})
		assert.NoError(t, store.Verify(ctx, []*x509.Certificate{leaf.Cert, inter.Cert}))
	})

	t.Run("missing intermediate", func(t *testing.T) {
		t.Parallel()
		store := truststore.New(td, []*x509.Certificate{root.Cert})
		err := store.Verify(ctx, []*x509.Certificate{leaf.Cert})
		assert.ErrorIs(t, err, ports.ErrChainNotTrusted)
	})

	t.Run("wrong anchor", func(t *testing.T) {
		t.Parallel()
		store := truststore.New(td, []*x509.Certificate{other.Cert})
		err := store.Verify(ctx, []*x509.Certificate{leaf.Cert, inter.Cert})
		assert.ErrorIs(t, err, ports.ErrChainNotTrusted)
	})

	t.Run("no anchors", func(t *testing.T) {
		t.Parallel()
		store := truststore.New(td, nil)
		err := store.Verify(ctx, []*x509.Certificate{leaf.Cert})
		assert.ErrorIs(t, err, ports.ErrTrustBundleNotFound)
	})

	t.Run("expired at verification time", func(t *testing.T) {
		t.Parallel()
		future := func() time.Time { return time.Now().Add(72 * time.Hour) }
		store := truststore.New(td, []*x509.Certificate{root.Cert}, truststore.WithClock(future))
		err := store.Verify(ctx, []*x509.Certificate{leaf.Cert, inter.Cert})
		assert.ErrorIs(t, err, ports.ErrChainNotTrusted)
	})
}

func TestStore_GetX509BundleForTrustDomain(t *testing.T) {
	t.Parallel()

	root := testhelpers.NewCA(t, "Root")
	store := truststore.New(td, []*x509.Certificate{root.Cert})

	bundle, err := store.GetX509BundleForTrustDomain(td)
	require.NoError(t, err)
	assert.True(t, bundle.HasX509Authority(root.Cert))

	_, err = store.GetX509BundleForTrustDomain(spiffeid.RequireTrustDomainFromString("other.org"))
	assert.ErrorIs(t, err, ports.ErrTrustBundleNotFound)
}

func TestStore_LoadAndReload(t *testing.T) {
	t.Parallel()

	first := testhelpers.NewCA(t, "First")
	second := testhelpers.NewCA(t, "Second")
	path := filepath.Join(t.TempDir(), "bundle.pem")
	require.NoError(t, os.WriteFile(path, testhelpers.PEM(first.Cert), 0o600))

	store, err := truststore.Load(td, path)
	require.NoError(t, err)
	require.Len(t, store.Anchors(), 1)
	assert.Equal(t, first.Cert.Raw, store.Anchors()[0].Raw)

	require.NoError(t, os.WriteFile(path, testhelpers.PEM(first.Cert, second.Cert), 0o600))
	require.NoError(t, store.Reload())
	assert.Len(t, store.Anchors(), 2)

	// A broken file keeps the previous anchors.
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))
	assert.Error(t, store.Reload())
	assert.Len(t, store.Anchors(), 2)
}

func TestStore_Load_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := truststore.Load(td, filepath.Join(t.TempDir(), "missing.pem"))
	assert.Error(t, err)
}

func TestStore_Reload_InMemory(t *testing.T) {
	t.Parallel()

	store := truststore.New(td, nil)
	assert.Error(t, store.Reload())
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	t.Parallel()

	first := testhelpers.NewCA(t, "First")
	second := testhelpers.NewCA(t, "Second")
	path := filepath.Join(t.TempDir(), "bundle.pem")
	require.NoError(t, os.WriteFile(path, testhelpers.PEM(first.Cert), 0o600))

	store, err := truststore.Load(td, path)
	require.NoError(t, err)

	watcher, err := truststore.NewWatcher(store, logging.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.NoError(t, os.WriteFile(path, testhelpers.PEM(first.Cert, second.Cert), 0o600))

	require.Eventually(t, func() bool {
		return len(store.Anchors()) == 2
	}, 5*time.Second, 50*time.Millisecond)
}

func TestNewWatcher_RequiresFileStore(t *testing.T) {
	t.Parallel()

	_, err := truststore.NewWatcher(truststore.New(td, nil), logging.Nop())
	assert.Error(t, err)
}
