package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sufield/bst/internal/adapters/outbound/truststore"
	"github.com/sufield/bst/internal/config"
	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/processor"
	"github.com/sufield/bst/internal/wsdoc"
	"github.com/sufield/bst/internal/wssxml"
)

// Application holds the wired processor and its resources.
//
// Concurrency: ProcessDocument is safe for concurrent use; each call works
// on its own DocInfo.
type Application struct {
	cfg       *config.Config
	logger    zerolog.Logger
	processor *processor.Processor
	request   *processor.RequestData
	watchers  []*truststore.Watcher
	closers   []io.Closer

	closeOnce sync.Once
	closeErr  error
}

// Config returns the configuration the application was built from.
func (a *Application) Config() *config.Config {
	return a.cfg
}

// RequestData returns the shared processing configuration.
func (a *Application) RequestData() *processor.RequestData {
	return a.request
}

// ProcessDocument processes every BinarySecurityToken of an XML document in
// document order with a fresh DocInfo.
//
// Processing stops at the first failing token; the error names its position
// and wraps the failure class (domain.ErrTokenFormat and friends).
func (a *Application) ProcessDocument(ctx context.Context, r io.Reader) ([]*domain.ProcessingResult, *wsdoc.DocInfo, error) {
	elems, err := wssxml.Extract(r)
	if err != nil {
		return nil, nil, err
	}

	doc := wsdoc.New()
	results := make([]*domain.ProcessingResult, 0, len(elems))
	for i, elem := range elems {
		if err := ctx.Err(); err != nil {
			return nil, doc, err
		}
		out, err := a.processor.HandleToken(ctx, elem, a.request, doc)
		if err != nil {
			return nil, doc, fmt.Errorf("token %d: %w", i, err)
		}
		results = append(results, out...)
	}

	a.logger.Debug().Str("doc", doc.ID()).Int("tokens", len(elems)).Msg("document processed")
	return results, doc, nil
}

// ProcessToken processes a single element with a fresh DocInfo.
func (a *Application) ProcessToken(ctx context.Context, elem *domain.EncodedToken) ([]*domain.ProcessingResult, error) {
	return a.processor.HandleToken(ctx, elem, a.request, wsdoc.New())
}

// Run keeps trust bundle watchers running until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if len(a.watchers) == 0 {
		<-ctx.Done()
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, len(a.watchers))
	for i, w := range a.watchers {
		i := i
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = w.Run(ctx)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

// Close releases provider connections. Idempotent.
func (a *Application) Close() error {
	a.closeOnce.Do(func() {
		var errs []error
		for _, c := range a.closers {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}
