// Package watch reports documents dropped into an input directory.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dgallion1/legalchunk/internal/parser"
)

// DefaultDebounce is how long a file must stay quiet before it is handed on.
const DefaultDebounce = 2 * time.Second

// Watcher calls a handler for every supported file created or written in a
// directory, once writes to that file have settled.
type Watcher struct {
	dir      string
	debounce time.Duration
	handle   func(path string)
	log      *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher for dir. handle runs on its own goroutine per
// settled file.
func New(dir string, debounce time.Duration, handle func(path string), log *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handle:   handle,
		log:      log,
		pending:  make(map[string]*time.Timer),
	}
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.log.Info("watching input dir", "dir", w.dir, "debounce", w.debounce)

	defer w.stopPending()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.observe(event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) observe(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			w.cancel(event.Name)
		}
		return
	}
	name := filepath.Base(event.Name)
	if !Eligible(name) {
		return
	}
	w.schedule(event.Name)
}

// Eligible reports whether a file in the input directory should be chunked.
// Hidden and temporary files are ignored.
func Eligible(name string) bool {
	if name == "" || name[0] == '.' || name[0] == '~' {
		return false
	}
	if name == "failed_urls.txt" {
		return false
	}
	return parser.IsSupportedExtension(name)
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.log.Debug("file settled", "path", path)
		w.handle(path)
	})
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}
