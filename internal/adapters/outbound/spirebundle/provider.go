// Package spirebundle is a trust-material provider backed by the SPIRE
// Workload API.
//
// Trust anchors come from the live X509Source of the local SPIRE agent and
// follow bundle rotation without restarts. Certificate decoding and chain
// verification are delegated to a truststore.Store built over the current
// bundle for each call.
//
// Concurrency: Safe for concurrent use. After Close every method returns
// ports.ErrProviderUnavailable.
package spirebundle

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spiffe/go-spiffe/v2/bundle/x509bundle"
	"github.com/spiffe/go-spiffe/v2/spiffeid"
	"github.com/spiffe/go-spiffe/v2/workloadapi"

	"github.com/sufield/bst/internal/adapters/outbound/truststore"
	"github.com/sufield/bst/internal/ports"
)

// Config configures the provider.
type Config struct {
	// WorkloadSocket is the Workload API address. Bare paths are treated as
	// unix sockets. Empty means SPIFFE_ENDPOINT_SOCKET.
	WorkloadSocket string
	// TrustDomain selects the bundle used for verification. Empty means the
	// trust domain of the workload's own SVID.
	TrustDomain string
}

// Provider serves trust material from a SPIRE bundle source.
type Provider struct {
	mu          sync.RWMutex
	bundles     x509bundle.Source
	closer      io.Closer
	trustDomain spiffeid.TrustDomain

	closeOnce sync.Once
	closeErr  error
}

// New connects to the Workload API and waits for the first bundle.
//
// ctx only bounds the initial fetch; the source keeps watching for updates
// until Close is called.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if ctx == nil {
		return nil, errors.New("spirebundle: context cannot be nil")
	}

	var opts []workloadapi.X509SourceOption
	if cfg.WorkloadSocket != "" {
		opts = append(opts, workloadapi.WithClientOptions(workloadapi.WithAddr(normalizeToAddr(cfg.WorkloadSocket))))
	}
	source, err := workloadapi.NewX509Source(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("spirebundle: %w: %w", ports.ErrProviderUnavailable, err)
	}

	td, err := resolveTrustDomain(cfg.TrustDomain, source)
	if err != nil {
		source.Close()
		return nil, err
	}
	return newProvider(source, source, td), nil
}

func newProvider(bundles x509bundle.Source, closer io.Closer, td spiffeid.TrustDomain) *Provider {
	return &Provider{bundles: bundles, closer: closer, trustDomain: td}
}

func resolveTrustDomain(configured string, source *workloadapi.X509Source) (spiffeid.TrustDomain, error) {
	if configured != "" {
		td, err := spiffeid.TrustDomainFromString(configured)
		if err != nil {
			return spiffeid.TrustDomain{}, fmt.Errorf("spirebundle: invalid trust domain %q: %w", configured, err)
		}
		return td, nil
	}
	svid, err := source.GetX509SVID()
	if err != nil {
		return spiffeid.TrustDomain{}, fmt.Errorf("spirebundle: %w: no SVID to derive trust domain: %w", ports.ErrProviderUnavailable, err)
	}
	return svid.ID.TrustDomain(), nil
}

// TrustDomain returns the trust domain whose bundle is used.
func (p *Provider) TrustDomain() spiffeid.TrustDomain {
	return p.trustDomain
}

// snapshot returns a store over the current bundle.
func (p *Provider) snapshot() (*truststore.Store, error) {
	p.mu.RLock()
	bundles := p.bundles
	p.mu.RUnlock()

	if bundles == nil {
		return nil, fmt.Errorf("spirebundle: %w: source is closed", ports.ErrProviderUnavailable)
	}
	bundle, err := bundles.GetX509BundleForTrustDomain(p.trustDomain)
	if err != nil {
		return nil, fmt.Errorf("spirebundle: %w: %w", ports.ErrTrustBundleNotFound, err)
	}
	return truststore.New(p.trustDomain, bundle.X509Authorities()), nil
}

// LoadCertificate implements ports.TrustMaterialProvider.
func (p *Provider) LoadCertificate(der []byte) (*x509.Certificate, error) {
	store, err := p.snapshot()
	if err != nil {
		return nil, err
	}
	return store.LoadCertificate(der)
}

// LoadCertPath implements ports.TrustMaterialProvider.
func (p *Provider) LoadCertPath(path []byte) ([]*x509.Certificate, error) {
	store, err := p.snapshot()
	if err != nil {
		return nil, err
	}
	return store.LoadCertPath(path)
}

// Verify implements ports.ChainVerifier.
func (p *Provider) Verify(ctx context.Context, chain []*x509.Certificate) error {
	store, err := p.snapshot()
	if err != nil {
		return err
	}
	return store.Verify(ctx, chain)
}

// GetX509BundleForTrustDomain implements x509bundle.Source.
func (p *Provider) GetX509BundleForTrustDomain(td spiffeid.TrustDomain) (*x509bundle.Bundle, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.bundles == nil {
		return nil, fmt.Errorf("spirebundle: %w: source is closed", ports.ErrProviderUnavailable)
	}
	return p.bundles.GetX509BundleForTrustDomain(td)
}

// Close releases the Workload API connection. Idempotent.
func (p *Provider) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		if p.closer != nil {
			p.closeErr = p.closer.Close()
		}
		p.bundles = nil
		p.closer = nil
	})
	return p.closeErr
}

// normalizeToAddr prefixes bare filesystem paths with unix://.
func normalizeToAddr(raw string) string {
	if strings.HasPrefix(raw, "unix://") || strings.HasPrefix(raw, "tcp://") {
		return raw
	}
	return "unix://" + raw
}

var (
	_ ports.TrustMaterialProvider = (*Provider)(nil)
	_ ports.ChainVerifier         = (*Provider)(nil)
	_ x509bundle.Source           = (*Provider)(nil)
)
