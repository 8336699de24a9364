// Package config loads the YAML configuration of the token processor.
//
// A minimal file only needs a trust store:
//
//	signature_store:
//	  trust_domain: example.org
//	  bundle_path: /etc/bst/bundle.pem
//
// Defaults are applied with creasty/defaults after decoding; structural rules
// are checked with go-playground/validator and semantic rules (trust domain
// syntax, cross references) by Validate.
package config

import (
	"errors"
	"time"

	"github.com/sufield/bst/internal/domain"
)

// ErrInvalidConfig is returned when configuration validation fails.
var ErrInvalidConfig = errors.New("invalid config")

// Store roles a validator can reference.
const (
	RoleSignature  = "signature"
	RoleDecryption = "decryption"
)

// Validator types that can be built from configuration.
const (
	ValidatorTrust    = "trust"
	ValidatorSPIFFE   = "spiffe"
	ValidatorExchange = "exchange"
)

// Config is the root of the configuration file.
type Config struct {
	// Version is the file format version (optional, currently always 1).
	Version int `yaml:"version,omitempty"`

	// StrictProfile enforces the WS-I Basic Security Profile. Defaults to true.
	StrictProfile *bool `yaml:"strict_profile,omitempty"`

	Log             LogSection         `yaml:"log"`
	SignatureStore  *StoreSection      `yaml:"signature_store,omitempty"`
	DecryptionStore *StoreSection      `yaml:"decryption_store,omitempty"`
	SPIRE           *SPIRESection      `yaml:"spire,omitempty"`
	Exchange        *ExchangeSection   `yaml:"exchange,omitempty"`
	Validators      []ValidatorSection `yaml:"validators,omitempty" validate:"dive"`
	HTTP            HTTPSection        `yaml:"http"`
}

// Strict reports whether the Basic Security Profile is enforced.
func (c *Config) Strict() bool {
	return c.StrictProfile == nil || *c.StrictProfile
}

// LogSection configures logging.
type LogSection struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
}

// StoreSection configures a PEM bundle trust store.
type StoreSection struct {
	TrustDomain string `yaml:"trust_domain" validate:"required"`
	BundlePath  string `yaml:"bundle_path" validate:"required"`
	// Watch reloads the bundle when the file changes.
	Watch bool `yaml:"watch"`
}

// SPIRESection configures the Workload API bundle provider.
type SPIRESection struct {
	// WorkloadSocket is the agent socket; empty means SPIFFE_ENDPOINT_SOCKET.
	WorkloadSocket string `yaml:"workload_socket"`
	// TrustDomain selects the bundle; empty means the workload's own.
	TrustDomain string `yaml:"trust_domain"`
	// Role is the provider slot the SPIRE bundle fills when no file store is
	// configured for it.
	Role string `yaml:"role" default:"signature" validate:"oneof=signature decryption"`
	// InitialFetchTimeout bounds the wait for the first bundle.
	InitialFetchTimeout time.Duration `yaml:"initial_fetch_timeout" default:"30s" validate:"gt=0"`
}

// ExchangeSection configures assertion minting.
type ExchangeSection struct {
	Issuer   string        `yaml:"issuer" validate:"required"`
	Audience []string      `yaml:"audience"`
	TTL      time.Duration `yaml:"ttl" default:"5m" validate:"gt=0"`
	// KeyPath is a PEM private key (EC, RSA or Ed25519).
	KeyPath   string `yaml:"key_path" validate:"required"`
	Algorithm string `yaml:"algorithm" default:"ES256" validate:"oneof=ES256 ES384 ES512 RS256 PS256 EdDSA"`
}

// ValidatorSection binds validators to an element name.
//
// Types are run in order (see validation.Chain), e.g. [trust, exchange].
type ValidatorSection struct {
	Namespace string   `yaml:"namespace"`
	Local     string   `yaml:"local"`
	Types     []string `yaml:"types" validate:"required,min=1,dive,oneof=trust spiffe exchange"`
	// Store selects the trust store used by trust and spiffe validators.
	Store string `yaml:"store" default:"signature" validate:"oneof=signature decryption"`
	// TrustDomains restricts spiffe validators. Empty accepts any known domain.
	TrustDomains []string `yaml:"trust_domains"`
}

// Name returns the element name, defaulting to wsse:BinarySecurityToken.
func (v ValidatorSection) Name() domain.QName {
	name := domain.BinarySecurityTokenName
	if v.Namespace != "" {
		name.Namespace = v.Namespace
	}
	if v.Local != "" {
		name.Local = v.Local
	}
	return name
}

// HTTPSection configures the HTTP API.
type HTTPSection struct {
	ListenAddr        string        `yaml:"listen_addr" default:":8080" validate:"required,hostname_port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" default:"10s" validate:"gt=0"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" default:"15s" validate:"gt=0"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" default:"1048576" validate:"gt=0"`
}
