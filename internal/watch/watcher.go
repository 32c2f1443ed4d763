// Package watch re-runs a callback when template files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ksyq12/siterender/internal/logger"
)

// DefaultDebounce absorbs the burst of events a single editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to a fixed set of files. Parent directories are
// watched rather than the files themselves, so editors that save by rename
// keep triggering events.
type Watcher struct {
	Debounce time.Duration

	fsw     *fsnotify.Watcher
	files   map[string]bool
	pending map[string]time.Time
}

// New starts watching paths. Events that arrive before Run is called are
// buffered and delivered once it starts.
func New(paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		Debounce: DefaultDebounce,
		fsw:      fsw,
		files:    make(map[string]bool),
		pending:  make(map[string]time.Time),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Debug("watching %s", dir)
	}

	return w, nil
}

// Files returns the watched files, sorted.
func (w *Watcher) Files() []string {
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Run calls onChange for each watched file that settles after a change,
// until ctx is cancelled. onChange runs on Run's goroutine. The underlying
// watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	defer w.fsw.Close()

	tick := w.Debounce / 4
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-ticker.C:
			for _, path := range w.settled(time.Now()) {
				onChange(path)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !w.files[filepath.Clean(event.Name)] {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	logger.DebugFields("template changed", map[string]interface{}{"path": event.Name, "op": event.Op.String()})
	w.pending[filepath.Clean(event.Name)] = time.Now()
}

// settled drains the files whose last event is older than the debounce.
func (w *Watcher) settled(now time.Time) []string {
	var ready []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.Debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}
