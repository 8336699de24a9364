package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spiffe/go-spiffe/v2/spiffeid"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration.
//
// Ensures:
//   - field rules declared in struct tags hold
//   - trust domain strings are syntactically valid (using SDK validation)
//   - every validator has the trust material or exchange settings it needs
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := structValidator.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, describe(err))
	}

	for field, store := range map[string]*StoreSection{
		"signature_store":  cfg.SignatureStore,
		"decryption_store": cfg.DecryptionStore,
	} {
		if store == nil {
			continue
		}
		if _, err := spiffeid.TrustDomainFromString(store.TrustDomain); err != nil {
			return fmt.Errorf("%w: invalid %s.trust_domain %q: %w", ErrInvalidConfig, field, store.TrustDomain, err)
		}
	}
	if cfg.SPIRE != nil && cfg.SPIRE.TrustDomain != "" {
		if _, err := spiffeid.TrustDomainFromString(cfg.SPIRE.TrustDomain); err != nil {
			return fmt.Errorf("%w: invalid spire.trust_domain %q: %w", ErrInvalidConfig, cfg.SPIRE.TrustDomain, err)
		}
	}

	seen := make(map[string]bool)
	for i, v := range cfg.Validators {
		name := v.Name().String()
		if seen[name] {
			return fmt.Errorf("%w: validators[%d]: duplicate entry for %s", ErrInvalidConfig, i, name)
		}
		seen[name] = true

		if err := validateValidator(cfg, v); err != nil {
			return fmt.Errorf("%w: validators[%d]: %w", ErrInvalidConfig, i, err)
		}
	}
	return nil
}

func validateValidator(cfg *Config, v ValidatorSection) error {
	for _, td := range v.TrustDomains {
		if _, err := spiffeid.TrustDomainFromString(td); err != nil {
			return fmt.Errorf("invalid trust domain %q: %w", td, err)
		}
	}

	for _, typ := range v.Types {
		switch typ {
		case ValidatorTrust, ValidatorSPIFFE:
			if !cfg.HasTrustSource(v.Store) {
				return fmt.Errorf("%s validator needs a %s store or spire with role %s", typ, v.Store, v.Store)
			}
		case ValidatorExchange:
			if cfg.Exchange == nil {
				return errors.New("exchange validator needs the exchange section")
			}
		}
	}
	return nil
}

// HasTrustSource reports whether a provider is configured for role.
func (c *Config) HasTrustSource(role string) bool {
	switch role {
	case RoleSignature:
		if c.SignatureStore != nil {
			return true
		}
	case RoleDecryption:
		if c.DecryptionStore != nil {
			return true
		}
	default:
		return false
	}
	return c.SPIRE != nil && c.SPIRE.Role == role
}

// describe turns validator errors into "field: rule" messages.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Errorf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.Join(msgs...)
}
