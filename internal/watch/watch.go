package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"lookpub/internal/config"
	"lookpub/internal/fileutil"
	"lookpub/internal/logging"
	"lookpub/internal/template"
)

// Event is one settled filesystem change under a watched directory.
type Event struct {
	Path string
	Time time.Time
}

// Watcher debounces filesystem events per path and delivers settled changes
// on Events. Run owns the event loop; Close releases the underlying watcher.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
	events   chan Event
}

// New builds a watcher with the configured debounce interval.
func New(cfg *config.Config, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	debounce := time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &Watcher{
		fsw:      fsw,
		debounce: debounce,
		logger:   logger,
		events:   make(chan Event, 64),
	}, nil
}

// Add watches an existing directory.
func (w *Watcher) Add(dir string) error {
	if !fileutil.Exists(dir) {
		return fmt.Errorf("watch directory %q does not exist", dir)
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %q: %w", dir, err)
	}
	w.logger.Info("watching directory", logging.Args(logging.String("dir", dir))...)
	return nil
}

// AddTemplateDirs watches the static directory prefix of every registered
// template whose directory exists. Missing directories are skipped; a work
// area may not have been created yet.
func (w *Watcher) AddTemplateDirs(registry *template.Registry) error {
	added := 0
	for _, name := range registry.Names() {
		tpl, err := registry.Get(name)
		if err != nil {
			return err
		}
		dir := StaticDir(tpl.Pattern())
		if dir == "" || !fileutil.Exists(dir) {
			w.logger.Debug("skipping absent template directory",
				logging.Args(
					logging.String("template", name),
					logging.String("dir", dir),
				)...)
			continue
		}
		if err := w.Add(dir); err != nil {
			return err
		}
		added++
	}
	if added == 0 {
		return fmt.Errorf("no template directories exist to watch")
	}
	return nil
}

// Events delivers settled changes. The channel closes when Run returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run pumps filesystem events until the context is canceled. Changes to the
// same path within the debounce interval collapse into one event, emitted
// after the interval passes without further writes.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var settled <-chan time.Time

	arm := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			settled = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			pending[ev.Name] = struct{}{}
			arm()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.Args(logging.Error(err))...)

		case now := <-settled:
			for path := range pending {
				select {
				case w.events <- Event{Path: path, Time: now}:
				default:
					w.logger.Warn("dropping change event",
						logging.Args(logging.String("path", path))...)
				}
			}
			clear(pending)
			timer = nil
			settled = nil
		}
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// StaticDir returns the longest directory prefix of a template pattern that
// contains no fields. Watching this directory covers every path the pattern
// can produce.
func StaticDir(pattern string) string {
	idx := strings.IndexByte(pattern, '{')
	if idx < 0 {
		return filepath.Dir(pattern)
	}
	dir := filepath.Dir(pattern[:idx])
	if dir == "." {
		return ""
	}
	return dir
}
