package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/rs/zerolog"
	"github.com/spiffe/go-spiffe/v2/bundle/x509bundle"
	"github.com/spiffe/go-spiffe/v2/spiffeid"

	"github.com/sufield/bst/internal/adapters/outbound/spirebundle"
	"github.com/sufield/bst/internal/adapters/outbound/truststore"
	"github.com/sufield/bst/internal/config"
	"github.com/sufield/bst/internal/ports"
	"github.com/sufield/bst/internal/processor"
	"github.com/sufield/bst/internal/validation"
)

// trustSource is what both trust store implementations offer.
type trustSource interface {
	ports.TrustMaterialProvider
	ports.ChainVerifier
	x509bundle.Source
}

// Bootstrap wires the application:
//   - Loads the file trust stores (and watchers for watch: true)
//   - Connects to SPIRE when configured
//   - Builds the validator table
//   - Returns an Application; the caller must Close it
func Bootstrap(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	a := &Application{cfg: cfg, logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	// Step 1: file trust stores
	sources := make(map[string]trustSource)
	for role, section := range map[string]*config.StoreSection{
		config.RoleSignature:  cfg.SignatureStore,
		config.RoleDecryption: cfg.DecryptionStore,
	} {
		if section == nil {
			continue
		}
		store, err := a.loadStore(section)
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", role, err)
		}
		sources[role] = store
	}

	// Step 2: SPIRE fills its role when no file store does
	if cfg.SPIRE != nil && sources[cfg.SPIRE.Role] == nil {
		fetchCtx, cancel := context.WithTimeout(ctx, cfg.SPIRE.InitialFetchTimeout)
		provider, err := spirebundle.New(fetchCtx, spirebundle.Config{
			WorkloadSocket: cfg.SPIRE.WorkloadSocket,
			TrustDomain:    cfg.SPIRE.TrustDomain,
		})
		cancel()
		if err != nil {
			return nil, fmt.Errorf("spire: %w", err)
		}
		a.closers = append(a.closers, provider)
		sources[cfg.SPIRE.Role] = provider
		logger.Info().Str("trust_domain", provider.TrustDomain().String()).Str("role", cfg.SPIRE.Role).
			Msg("using SPIRE trust bundle")
	}

	// Step 3: validators
	table, err := buildValidators(cfg, sources)
	if err != nil {
		return nil, err
	}

	// Step 4: request data
	a.request = &processor.RequestData{
		StrictProfile: cfg.Strict(),
		Validators:    table,
		SigProvider:   asProvider(sources[config.RoleSignature]),
		DecProvider:   asProvider(sources[config.RoleDecryption]),
	}
	a.processor = processor.New(processor.WithLogger(logger))

	ok = true
	return a, nil
}

func (a *Application) loadStore(section *config.StoreSection) (*truststore.Store, error) {
	td, err := spiffeid.TrustDomainFromString(section.TrustDomain)
	if err != nil {
		return nil, err
	}
	store, err := truststore.Load(td, section.BundlePath)
	if err != nil {
		return nil, err
	}
	if section.Watch {
		w, err := truststore.NewWatcher(store, a.logger)
		if err != nil {
			return nil, err
		}
		a.watchers = append(a.watchers, w)
	}
	a.logger.Info().Str("bundle", section.BundlePath).Int("anchors", len(store.Anchors())).Msg("trust store loaded")
	return store, nil
}

// asProvider avoids storing a typed nil in the interface.
func asProvider(s trustSource) ports.TrustMaterialProvider {
	if s == nil {
		return nil
	}
	return s
}

func buildValidators(cfg *config.Config, sources map[string]trustSource) (*validation.Table, error) {
	table := validation.NewTable()

	var exchange *validation.ExchangeValidator
	if cfg.Exchange != nil {
		v, err := buildExchange(cfg.Exchange)
		if err != nil {
			return nil, err
		}
		exchange = v
	}

	for i, section := range cfg.Validators {
		source := sources[section.Store]
		chain := make([]ports.Validator, 0, len(section.Types))
		for _, typ := range section.Types {
			switch typ {
			case config.ValidatorTrust:
				chain = append(chain, validation.NewTrustValidator(source))
			case config.ValidatorSPIFFE:
				var opts []validation.SPIFFEOption
				for _, raw := range section.TrustDomains {
					td, err := spiffeid.TrustDomainFromString(raw)
					if err != nil {
						return nil, fmt.Errorf("validators[%d]: %w", i, err)
					}
					opts = append(opts, validation.WithTrustDomains(td))
				}
				chain = append(chain, validation.NewSPIFFEValidator(source, opts...))
			case config.ValidatorExchange:
				chain = append(chain, exchange)
			default:
				return nil, fmt.Errorf("validators[%d]: unknown type %q", i, typ)
			}
		}

		if len(chain) == 1 {
			table.Register(section.Name(), chain[0])
		} else {
			table.Register(section.Name(), validation.Chain(chain...))
		}
	}
	return table, nil
}

func buildExchange(section *config.ExchangeSection) (*validation.ExchangeValidator, error) {
	data, err := os.ReadFile(filepath.Clean(section.KeyPath)) // #nosec G304 - path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("exchange: failed to read signing key: %w", err)
	}
	key, err := jwk.ParseKey(data, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("exchange: failed to parse signing key: %w", err)
	}

	var alg jwa.SignatureAlgorithm
	if err := alg.Accept(section.Algorithm); err != nil {
		return nil, fmt.Errorf("exchange: %w", err)
	}

	return validation.NewExchangeValidator(validation.ExchangeConfig{
		Issuer:    section.Issuer,
		Audience:  section.Audience,
		TTL:       section.TTL,
		Algorithm: alg,
		Key:       key,
	})
}

var (
	_ trustSource = (*truststore.Store)(nil)
	_ trustSource = (*spirebundle.Provider)(nil)
	_ io.Closer   = (*spirebundle.Provider)(nil)
)
