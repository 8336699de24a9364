package validation

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/ports"
)

// TokenTypeJWT is the token type URI of assertions minted by ExchangeValidator.
const TokenTypeJWT = "urn:ietf:params:oauth:token-type:jwt"

// Assertion is a signed JWT issued in exchange for a binary security token.
type Assertion struct {
	token   jwt.Token
	compact string
}

// TokenType implements domain.TransformedToken.
func (a *Assertion) TokenType() string { return TokenTypeJWT }

// Subject implements domain.TransformedToken.
func (a *Assertion) Subject() string { return a.token.Subject() }

// Issuer returns the iss claim.
func (a *Assertion) Issuer() string { return a.token.Issuer() }

// Audience returns the aud claim.
func (a *Assertion) Audience() []string { return a.token.Audience() }

// Expiration returns the exp claim.
func (a *Assertion) Expiration() time.Time { return a.token.Expiration() }

// Compact returns the JWS compact serialization.
func (a *Assertion) Compact() string { return a.compact }

// ExchangeConfig configures an ExchangeValidator.
type ExchangeConfig struct {
	// Issuer is the iss claim of minted assertions. Required.
	Issuer string
	// Audience is the aud claim. Optional.
	Audience []string
	// TTL is the assertion lifetime. Defaults to 5 minutes.
	TTL time.Duration
	// Algorithm signs the assertion. Defaults to ES256.
	Algorithm jwa.SignatureAlgorithm
	// Key is the private signing key.
	Key jwk.Key
}

// ExchangeValidator mints a JWT assertion for the token's identity.
//
// The subject is the principal set by a preceding validator (see Chain), or
// the subject DN of the end-entity certificate. When a certificate is present
// the assertion is bound to it with a cnf x5t#S256 thumbprint (RFC 8705).
type ExchangeValidator struct {
	cfg   ExchangeConfig
	clock func() time.Time
}

// ExchangeOption configures an ExchangeValidator.
type ExchangeOption func(*ExchangeValidator)

// WithExchangeClock overrides the time used for iat, nbf and exp.
func WithExchangeClock(clock func() time.Time) ExchangeOption {
	return func(v *ExchangeValidator) {
		v.clock = clock
	}
}

// NewExchangeValidator validates cfg and creates the validator.
func NewExchangeValidator(cfg ExchangeConfig, opts ...ExchangeOption) (*ExchangeValidator, error) {
	if cfg.Issuer == "" {
		return nil, errors.New("exchange: issuer is required")
	}
	if cfg.Key == nil {
		return nil, errors.New("exchange: signing key is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = jwa.ES256
	}

	v := &ExchangeValidator{cfg: cfg, clock: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Validate implements ports.Validator.
func (v *ExchangeValidator) Validate(_ context.Context, cred *domain.Credential) (*domain.Credential, error) {
	chain := cred.Certificates()

	var subject string
	switch {
	case cred.Principal() != nil:
		subject = cred.Principal().Name()
	case len(chain) > 0:
		subject = chain[0].Subject.String()
	}
	if subject == "" {
		return nil, fmt.Errorf("exchange: %w: no identity to exchange", domain.ErrValidation)
	}

	now := v.clock()
	builder := jwt.NewBuilder().
		Issuer(v.cfg.Issuer).
		Subject(subject).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(v.cfg.TTL)).
		JwtID(uuid.NewString())
	if len(v.cfg.Audience) > 0 {
		builder = builder.Audience(v.cfg.Audience)
	}
	if len(chain) > 0 {
		sum := sha256.Sum256(chain[0].Raw)
		builder = builder.Claim("cnf", map[string]any{
			"x5t#S256": base64.RawURLEncoding.EncodeToString(sum[:]),
		})
	}

	token, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("exchange: %w: build assertion: %w", domain.ErrValidation, err)
	}
	signed, err := jwt.Sign(token, jwt.WithKey(v.cfg.Algorithm, v.cfg.Key))
	if err != nil {
		return nil, fmt.Errorf("exchange: %w: sign assertion: %w", domain.ErrValidation, err)
	}

	cred.SetTransformedToken(&Assertion{token: token, compact: string(signed)})
	return cred, nil
}

// ParseAssertion verifies a compact assertion with the issuer's public key
// and validates its time claims.
func ParseAssertion(compact string, alg jwa.SignatureAlgorithm, key jwk.Key, opts ...jwt.ParseOption) (*Assertion, error) {
	opts = append([]jwt.ParseOption{jwt.WithKey(alg, key), jwt.WithValidate(true)}, opts...)
	token, err := jwt.Parse([]byte(compact), opts...)
	if err != nil {
		return nil, fmt.Errorf("exchange: failed to parse and verify assertion: %w", err)
	}
	return &Assertion{token: token, compact: compact}, nil
}

var (
	_ ports.Validator         = (*ExchangeValidator)(nil)
	_ domain.TransformedToken = (*Assertion)(nil)
)
