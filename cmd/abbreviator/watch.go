package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/alnah/go-abbreviator/internal/config"
	"github.com/alnah/go-abbreviator/internal/watcher"
)

// runWatch applies once, then re-applies whenever a source, the config file
// or a watch.files entry changes, until ctx is canceled.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseApplyFlags("watch", args, env)
	if err != nil {
		return err
	}

	sess, err := newSession(ctx, f.session(), positional, env)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	debounce := sess.cfg.Watch.DebounceDuration(watcher.DefaultDebounce)
	if f.debounce != "" {
		debounce, err = time.ParseDuration(f.debounce)
		if err != nil || debounce <= 0 {
			return fmt.Errorf("%w: --debounce %q", ErrUsage, f.debounce)
		}
	}

	files, err := sess.discover()
	if err != nil {
		return err
	}
	sess.applyFiles(ctx, files, f.common, env)

	w, err := sess.newWatcher(debounce)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	if !f.common.quiet {
		fmt.Fprintln(env.Stdout, "Watching for changes (Ctrl+C to stop)")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			sess.handleChanges(ctx, paths, f.common, env)
		}
	}
}

// applyFiles processes files and prints the results. Failures are reported
// but do not stop watching.
func (s *session) applyFiles(ctx context.Context, files []FileToProcess, f commonFlags, env *Environment) {
	results := processBatch(ctx, s.processor, files, batchOptions{workers: s.workers, logger: s.logger}, env)
	printResults(results, f, env)
}

// newWatcher watches the config file, watch.files and every input.
func (s *session) newWatcher(debounce time.Duration) (*watcher.Watcher, error) {
	cfg := watcher.Config{
		Files:    s.watchedFiles(),
		Match:    s.isSource,
		Debounce: debounce,
		Logger:   s.logger,
	}
	for _, input := range s.inputs {
		if info, err := os.Stat(input); err == nil && info.IsDir() {
			cfg.Dirs = append(cfg.Dirs, input)
		} else {
			cfg.Files = append(cfg.Files, input)
		}
	}
	return watcher.New(cfg)
}

// handleChanges reacts to one batch of changed paths. A config or auxiliary
// file change reprocesses everything; otherwise only the changed sources.
func (s *session) handleChanges(ctx context.Context, paths []string, f commonFlags, env *Environment) {
	configAbs := absPath(s.configPath)
	aux := make(map[string]bool, len(s.cfg.Watch.Files))
	for _, p := range s.cfg.Watch.Files {
		aux[absPath(p)] = true
	}

	everything := false
	var changed []FileToProcess
	for _, p := range paths {
		switch {
		case s.configPath != "" && p == configAbs:
			s.reloadConfig()
			everything = true
		case aux[p]:
			s.logger.Info("watched file changed", "path", p)
			everything = true
		default:
			if file, ok := s.fileFor(p); ok {
				changed = append(changed, file)
			}
		}
	}

	if everything {
		s.processor.Filter().InvalidateAll()
		files, err := s.discover()
		if err != nil {
			s.logger.Error("discovering files", "error", err)
			return
		}
		s.applyFiles(ctx, files, f, env)
		return
	}
	if len(changed) > 0 {
		s.applyFiles(ctx, changed, f, env)
	}
}

// reloadConfig swaps in the abbreviations of the edited config file. An
// invalid file is logged and the previous abbreviations stay in use.
func (s *session) reloadConfig() {
	cfg, err := config.LoadFile(s.configPath)
	if err != nil {
		s.logger.Error("reloading config, keeping previous abbreviations", "path", s.configPath, "error", err)
		return
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		s.logger.Error("reloading config, keeping previous abbreviations", "path", s.configPath, "error", err)
		return
	}
	s.registry = reg
	s.processor.SetRegistry(reg)
	s.logger.Info("config reloaded", "path", s.configPath, "abbreviations", reg.Len())
}

// isSource reports whether a path under an input directory should be
// processed.
func (s *session) isSource(path string) bool {
	_, ok := s.fileFor(path)
	return ok
}

// fileFor maps a changed absolute path back to the file to process, applying
// the same rules as discovery.
func (s *session) fileFor(path string) (FileToProcess, bool) {
	format, err := formatFor(path)
	if err != nil {
		return FileToProcess{}, false
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return FileToProcess{}, false
	}
	if s.output != "" && !isSingleOutput(s.output) && within(absPath(s.output), path) {
		return FileToProcess{}, false
	}

	for _, input := range s.inputs {
		root := absPath(input)
		if root == path {
			return FileToProcess{
				InputPath:  input,
				OutputPath: resolveOutputPath(input, s.output, ""),
				Format:     format,
			}, true
		}
		if !within(root, path) {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || !s.discovery.selects(filepath.ToSlash(rel)) {
			continue
		}
		return FileToProcess{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, s.output, root),
			Format:     format,
		}, true
	}
	return FileToProcess{}, false
}

// selects reports whether a slash-separated path relative to an input
// directory passes the include and exclude patterns.
func (d discovery) selects(rel string) bool {
	if excluded, err := d.excluded(rel); err != nil || excluded {
		return false
	}
	if len(d.include) == 0 {
		return true
	}
	for _, pattern := range d.include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
