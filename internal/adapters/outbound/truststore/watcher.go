package truststore

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads a Store when its bundle file changes.
//
// The directory holding the file is watched rather than the file itself so
// that atomic replacements (write to temp file, rename over) are observed.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher for a store loaded from a file.
func NewWatcher(store *Store, logger zerolog.Logger) (*Watcher, error) {
	if store == nil || store.Path() == "" {
		return nil, fmt.Errorf("truststore: watcher requires a file-backed store")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("truststore: failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(store.Path())); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("truststore: failed to watch %q: %w", store.Path(), err)
	}

	return &Watcher{
		store:    store,
		watcher:  watcher,
		logger:   logger.With().Str("bundle", store.Path()).Logger(),
		debounce: 250 * time.Millisecond,
	}, nil
}

// Run reloads the store on changes. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	target := filepath.Clean(w.store.Path())
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("trust bundle watcher error")
		}
	}
}

func (w *Watcher) reload() {
	if err := w.store.Reload(); err != nil {
		w.logger.Error().Err(err).Msg("trust bundle reload failed, keeping previous anchors")
		return
	}
	w.logger.Info().Int("anchors", len(w.store.Anchors())).Msg("trust bundle reloaded")
}
