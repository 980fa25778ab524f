// Package watcher reports debounced file system changes for the files and
// directory trees that feed abbreviation rewriting.
package watcher

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// ErrNothingToWatch is returned by New when no files or directories are given.
var ErrNothingToWatch = errors.New("watcher: no paths to watch")

// Config holds watcher configuration options.
type Config struct {
	// Files are watched individually, through their parent directories.
	// They need not exist yet.
	Files []string

	// Dirs are watched recursively. Directories created later are added.
	Dirs []string

	// Match filters events under Dirs. Nil accepts every file.
	// Events for Files are always reported.
	Match func(path string) bool

	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher coalesces bursts of file events into one change notification
// carrying the affected paths.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     []string
	match    func(string) bool
	debounce time.Duration
	logger   *slog.Logger

	changes  chan []string
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Files) == 0 && len(cfg.Dirs) == 0 {
		return nil, ErrNothingToWatch
	}

	w := &Watcher{
		files:    make(map[string]bool, len(cfg.Files)),
		match:    cfg.Match,
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
		changes:  make(chan []string, 1),
		done:     make(chan struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.New(slog.DiscardHandler)
	}

	for _, f := range cfg.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", f, err)
		}
		w.files[abs] = true
	}
	for _, d := range cfg.Dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", d, err)
		}
		w.dirs = append(w.dirs, abs)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	w.fsw = fsw
	return w, nil
}

// Start begins watching and returns the notification channel. Each value
// is the sorted set of paths that changed during one debounce window.
func (w *Watcher) Start() (<-chan []string, error) {
	for f := range w.files {
		dir := filepath.Dir(f)
		if err := w.fsw.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}
	for _, d := range w.dirs {
		if err := w.addTree(d); err != nil {
			return nil, err
		}
	}

	go w.loop()
	return w.changes, nil
}

// Stop terminates the watcher and releases resources. Safe to call twice.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

// addTree watches root and every directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching directory %s: %w", path, err)
		}
		return nil
	})
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = make(map[string]bool)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	arm := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.NewTimer(w.debounce)
		timerC = timer.C
	}

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			pending[event.Name] = true
			arm()

		case <-timerC:
			timerC = nil
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)

			select {
			case w.changes <- paths:
				clear(pending)
			default:
				// Receiver busy; keep the paths and try again later.
				arm()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)

		case <-w.done:
			return
		}
	}
}

// relevant reports whether an event should trigger a notification. New
// directories inside a watched tree are added on the way.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if w.files[event.Name] {
		return true
	}

	if !w.inTree(event.Name) {
		return false
	}
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("watching new directory", "path", event.Name, "error", err)
			}
			return false
		}
	}
	return w.match == nil || w.match(event.Name)
}

func (w *Watcher) inTree(path string) bool {
	for _, d := range w.dirs {
		if path == d || strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
