// Package truststore is a file-backed trust-material provider.
//
// A Store decodes certificates carried by tokens (LoadCertificate,
// LoadCertPath) and verifies chains against a set of trust anchors held in a
// go-spiffe x509bundle.Bundle. Anchors are read from a PEM file and can be
// reloaded at runtime (see Watcher).
//
// Concurrency: Safe for concurrent use. Reload swaps the bundle under a lock;
// in-flight verifications keep the bundle they started with.
package truststore

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spiffe/go-spiffe/v2/bundle/x509bundle"
	"github.com/spiffe/go-spiffe/v2/spiffeid"

	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/pkipath"
	"github.com/sufield/bst/internal/ports"
)

// Store holds trust anchors for one trust domain.
type Store struct {
	mu          sync.RWMutex
	trustDomain spiffeid.TrustDomain
	bundle      *x509bundle.Bundle
	path        string

	clock func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time used for validity checks.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// New creates a store over in-memory anchors.
func New(td spiffeid.TrustDomain, anchors []*x509.Certificate, opts ...Option) *Store {
	s := &Store{
		trustDomain: td,
		bundle:      x509bundle.FromX509Authorities(td, anchors),
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load creates a store from a PEM bundle file.
func Load(td spiffeid.TrustDomain, path string, opts ...Option) (*Store, error) {
	bundle, err := x509bundle.Load(td, path)
	if err != nil {
		return nil, fmt.Errorf("truststore: load %s: %w", path, err)
	}
	s := &Store{
		trustDomain: td,
		bundle:      bundle,
		path:        path,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the bundle file the store was loaded from, or "".
func (s *Store) Path() string {
	return s.path
}

// TrustDomain returns the trust domain the anchors belong to.
func (s *Store) TrustDomain() spiffeid.TrustDomain {
	return s.trustDomain
}

// Reload re-reads the bundle file. The previous anchors stay in place when
// the file cannot be read or parsed.
func (s *Store) Reload() error {
	if s.path == "" {
		return errors.New("truststore: store was not loaded from a file")
	}
	bundle, err := x509bundle.Load(s.trustDomain, s.path)
	if err != nil {
		return fmt.Errorf("truststore: reload %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.bundle = bundle
	s.mu.Unlock()
	return nil
}

// Anchors returns a copy of the trust anchors.
func (s *Store) Anchors() []*x509.Certificate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle.X509Authorities()
}

// LoadCertificate implements ports.TrustMaterialProvider.
func (s *Store) LoadCertificate(der []byte) (*x509.Certificate, error) {
	if len(der) == 0 {
		return nil, fmt.Errorf("truststore: %w: empty certificate", domain.ErrCertificateDecode)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("truststore: %w: %v", domain.ErrCertificateDecode, err)
	}
	return cert, nil
}

// LoadCertPath implements ports.TrustMaterialProvider.
func (s *Store) LoadCertPath(path []byte) ([]*x509.Certificate, error) {
	chain, err := pkipath.Decode(path)
	if err != nil {
		return nil, fmt.Errorf("truststore: %w: %v", domain.ErrCertificateDecode, err)
	}
	return chain, nil
}

// Verify implements ports.ChainVerifier.
func (s *Store) Verify(ctx context.Context, chain []*x509.Certificate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(chain) == 0 || chain[0] == nil {
		return fmt.Errorf("truststore: %w: empty chain", ports.ErrChainNotTrusted)
	}

	anchors := s.Anchors()
	if len(anchors) == 0 {
		return fmt.Errorf("truststore: %w: for trust domain %s", ports.ErrTrustBundleNotFound, s.trustDomain)
	}
	return verifyChain(chain, anchors, s.clock())
}

// GetX509BundleForTrustDomain implements x509bundle.Source.
func (s *Store) GetX509BundleForTrustDomain(td spiffeid.TrustDomain) (*x509bundle.Bundle, error) {
	if td != s.trustDomain {
		return nil, fmt.Errorf("truststore: %w: trust domain %s not found (only %s is available)",
			ports.ErrTrustBundleNotFound, td, s.trustDomain)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle, nil
}

// verifyChain builds a path from chain[0] to one of anchors.
func verifyChain(chain, anchors []*x509.Certificate, now time.Time) error {
	roots := x509.NewCertPool()
	for _, anchor := range anchors {
		roots.AddCert(anchor)
	}
	intermediates := x509.NewCertPool()
	for _, cert := range chain[1:] {
		if cert != nil {
			intermediates.AddCert(cert)
		}
	}

	_, err := chain[0].Verify(x509.VerifyOptions{
		Roots:         roots,
		Intermediates: intermediates,
		CurrentTime:   now,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	if err != nil {
		return fmt.Errorf("truststore: %w: %v", ports.ErrChainNotTrusted, err)
	}
	return nil
}

var (
	_ ports.TrustMaterialProvider = (*Store)(nil)
	_ ports.ChainVerifier         = (*Store)(nil)
	_ x509bundle.Source           = (*Store)(nil)
)
