// Package processor turns a BinarySecurityToken element into a processing
// result.
//
// The pipeline is linear: decode the payload, resolve certificates through
// the trust-material provider, run the validator configured for the element
// (if any), then assemble and register the result. The first failing stage
// aborts the token; the document context is only written by the last stage.
package processor

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/sufield/bst/internal/decoder"
	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/resolver"
	"github.com/sufield/bst/internal/validation"
	"github.com/sufield/bst/internal/wsdoc"
)

// Processor handles BinarySecurityToken elements.
//
// Concurrency: Safe for concurrent use with distinct DocInfo values.
type Processor struct {
	logger zerolog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger. Defaults to a disabled logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// New creates a processor.
func New(opts ...Option) *Processor {
	p := &Processor{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HandleToken processes one token element and returns exactly one result.
//
// Errors wrap domain.ErrTokenFormat, domain.ErrCertificateDecode or
// domain.ErrValidation depending on the failing stage. On error doc is left
// unchanged.
func (p *Processor) HandleToken(
	ctx context.Context,
	elem *domain.EncodedToken,
	data *RequestData,
	doc *wsdoc.DocInfo,
) ([]*domain.ProcessingResult, error) {
	if elem == nil {
		return nil, errors.New("processor: token element is nil")
	}
	if data == nil {
		return nil, errors.New("processor: request data is nil")
	}
	if doc == nil {
		return nil, errors.New("processor: document context is nil")
	}

	log := p.logger.With().
		Str("doc", doc.ID()).
		Str("wsu_id", elem.ID()).
		Str("value_type", elem.ValueType()).
		Logger()

	// Step 1: decode
	tok, err := decoder.Decode(elem, data.StrictProfile)
	if err != nil {
		log.Debug().Err(err).Msg("token decode failed")
		return nil, err
	}
	log.Debug().Stringer("kind", tok.Kind()).Int("bytes", len(tok.Bytes())).Msg("token decoded")

	// Step 2: resolve certificates
	chain, err := resolver.Resolve(tok, data.TrustProvider())
	if err != nil {
		log.Debug().Err(err).Msg("certificate resolution failed")
		return nil, err
	}
	log.Debug().Int("certificates", len(chain)).Msg("certificates resolved")

	// Step 3: validate
	v, _ := data.Validators.Lookup(elem.Name())
	outcome, err := validation.Apply(ctx, domain.NewCredential(tok, chain), v)
	if err != nil {
		log.Debug().Err(err).Msg("validation failed")
		return nil, err
	}

	// Step 4: assemble and register
	result, err := assemble(elem, tok, chain, outcome, doc)
	if err != nil {
		return nil, err
	}

	event := log.Info().Stringer("kind", tok.Kind()).Bool("validated", result.Validated())
	if principal := result.Principal(); principal != nil {
		event = event.Str("principal", principal.Name())
	}
	event.Msg("binary security token processed")

	return []*domain.ProcessingResult{result}, nil
}
