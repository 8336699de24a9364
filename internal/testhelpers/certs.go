// Package testhelpers provides certificate fixtures for tests.
//
// Fixtures are generated per test with ECDSA P-256 keys so that every test
// works on its own small PKI:
//
//	root := testhelpers.NewCA(t, "Test Root CA")
//	inter := root.NewIntermediate(t, "Test Issuing CA")
//	leaf := inter.IssueLeaf(t, pkix.Name{CommonName: "client"})
//	chain := []*x509.Certificate{leaf.Cert, inter.Cert, root.Cert}
package testhelpers

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"net/url"
	"testing"
	"time"

	"github.com/sufield/bst/internal/pkipath"
)

// CertAuthority is a CA certificate together with its signing key.
type CertAuthority struct {
	Cert *x509.Certificate
	Key  *ecdsa.PrivateKey
}

// Leaf is an end-entity certificate with its key.
type Leaf struct {
	Cert *x509.Certificate
	Key  *ecdsa.PrivateKey
}

// NewCA creates a self-signed root CA.
func NewCA(t testing.TB, commonName string) *CertAuthority {
	t.Helper()

	key := newKey(t)
	tmpl := &x509.Certificate{
		SerialNumber:          newSerial(t),
		Subject:               pkix.Name{CommonName: commonName, Organization: []string{"BST Test"}},
		NotBefore:             time.Now().Add(-1 * time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	return &CertAuthority{Cert: sign(t, tmpl, tmpl, key, key), Key: key}
}

// NewIntermediate creates a CA certificate issued by ca.
func (ca *CertAuthority) NewIntermediate(t testing.TB, commonName string) *CertAuthority {
	t.Helper()

	key := newKey(t)
	tmpl := &x509.Certificate{
		SerialNumber:          newSerial(t),
		Subject:               pkix.Name{CommonName: commonName, Organization: []string{"BST Test"}},
		NotBefore:             time.Now().Add(-1 * time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	return &CertAuthority{Cert: sign(t, tmpl, ca.Cert, key, ca.Key), Key: key}
}

// IssueLeaf issues an end-entity certificate. Each entry of uris is added as
// a URI SAN (e.g. a SPIFFE ID).
func (ca *CertAuthority) IssueLeaf(t testing.TB, subject pkix.Name, uris ...string) *Leaf {
	t.Helper()

	var sans []*url.URL
	for _, raw := range uris {
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("invalid URI SAN %q: %v", raw, err)
		}
		sans = append(sans, u)
	}

	key := newKey(t)
	tmpl := &x509.Certificate{
		SerialNumber: newSerial(t),
		Subject:      subject,
		URIs:         sans,
		NotBefore:    time.Now().Add(-1 * time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
	}
	return &Leaf{Cert: sign(t, tmpl, ca.Cert, key, ca.Key), Key: key}
}

// PKIPath encodes a leaf-first chain as a PkiPath.
func PKIPath(t testing.TB, chain ...*x509.Certificate) []byte {
	t.Helper()

	der, err := pkipath.Encode(chain)
	if err != nil {
		t.Fatalf("failed to encode PkiPath: %v", err)
	}
	return der
}

// Base64 returns the standard base64 encoding used in token payloads.
func Base64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// PEM encodes certificates as concatenated CERTIFICATE blocks.
func PEM(certs ...*x509.Certificate) []byte {
	var out []byte
	for _, cert := range certs {
		out = append(out, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})...)
	}
	return out
}

func newKey(t testing.TB) *ecdsa.PrivateKey {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return key
}

func newSerial(t testing.TB) *big.Int {
	t.Helper()

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		t.Fatalf("failed to generate serial: %v", err)
	}
	return serial
}

func sign(t testing.TB, tmpl, parent *x509.Certificate, key, parentKey *ecdsa.PrivateKey) *x509.Certificate {
	t.Helper()

	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, &key.PublicKey, parentKey)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("failed to parse certificate: %v", err)
	}
	return cert
}
