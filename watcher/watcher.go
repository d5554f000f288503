package watcher

// Directory Watcher
//
// Watches an incoming directory and feeds newly arrived sample files to the
// organizer. Files are often still being written when the first event fires,
// so each path gets a settle delay that restarts on every new event; only a
// path that has been quiet for the full delay is processed. Failures are
// logged and never stop the watch loop.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mdobak/go-xerrors"

	"sample-sorter/audiofile"
	"sample-sorter/organizer"
	"sample-sorter/utils"
)

// DefaultSettleDelay is how long a file must stay quiet before processing.
const DefaultSettleDelay = 500 * time.Millisecond

// Watcher feeds newly created sample files to an organizer.
type Watcher struct {
	organizer   *organizer.Organizer
	settleDelay time.Duration
	logger      *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New builds a watcher. A non-positive settle delay uses the default.
func New(org *organizer.Organizer, settleDelay time.Duration) *Watcher {
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	return &Watcher{
		organizer:   org,
		settleDelay: settleDelay,
		logger:      utils.GetLogger(),
		pending:     make(map[string]*time.Timer),
	}
}

// Watch blocks processing filesystem events for dir until the context is
// cancelled.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.logger.Info("watching for samples",
		slog.String("dir", dir),
		slog.Duration("settleDelay", w.settleDelay),
	)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !audiofile.SupportedExtension(event.Name) {
				continue
			}
			w.schedule(event.Name)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", slog.Any("error", xerrors.New(err)))
		}
	}
}

// schedule (re)starts the settle timer for a path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settleDelay)
		return
	}

	w.pending[path] = time.AfterFunc(w.settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.process(path)
	})
}

func (w *Watcher) process(path string) {
	result, err := w.organizer.ProcessFile(path)
	switch {
	case errors.Is(err, organizer.ErrAlreadySorted):
		w.logger.Debug("skipping already sorted sample", slog.String("path", path))
	case err != nil:
		w.logger.Error("failed to sort incoming sample",
			slog.String("path", path),
			slog.Any("error", xerrors.New(err)))
	default:
		w.logger.Info("sorted incoming sample",
			slog.String("path", path),
			slog.String("category", string(result.Category)),
			slog.String("destination", result.Destination))
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
