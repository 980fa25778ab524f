package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	abbreviator "github.com/alnah/go-abbreviator"
	"github.com/alnah/go-abbreviator/internal/config"
)

// DefaultCacheFile is the sqlite cache used when cache.path is unset.
const DefaultCacheFile = "decisions.db"

// settings is the configuration a command runs with, after merging the
// config file, the environment and the command's flags.
type settings struct {
	cfg        *config.Config
	configPath string // empty when running on defaults
	workers    int
	logger     *slog.Logger
}

// newLogger builds the CLI logger: warnings by default, debug with
// --verbose, errors only with --quiet.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case f.quiet:
		level = slog.LevelError
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadSettings loads the config named by --config or ABBREVIATOR_CONFIG,
// falling back to defaults when neither is set, then applies the
// environment.
func loadSettings(f commonFlags, env *Environment) (*settings, error) {
	envCfg := loadEnvConfig()
	s := &settings{
		cfg:     config.DefaultConfig(),
		workers: envCfg.Workers,
		logger:  newLogger(env.Stderr, f),
	}

	name := f.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		path, err := config.ResolvePath(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		s.cfg, s.configPath = cfg, path
		s.logger.Debug("config loaded", "path", path, "abbreviations", len(cfg.Abbreviations))
	}

	applyEnvConfig(envCfg, s.cfg)
	return s, nil
}

// applyCacheFlags overlays --cache and --cache-path.
func (s *settings) applyCacheFlags(f cacheFlags) error {
	if f.backend != "" {
		s.cfg.Cache.Backend = f.backend
	}
	if f.path != "" {
		s.cfg.Cache.Path = f.path
	}
	return s.cfg.Validate()
}

// buildRegistry validates the configured abbreviations.
func buildRegistry(cfg *config.Config) (*abbreviator.Registry, error) {
	defs := make([]abbreviator.Definition, len(cfg.Abbreviations))
	for i, a := range cfg.Abbreviations {
		defs[i] = abbreviator.Definition{Abbreviation: a.Abbreviation, Meaning: a.Meaning}
	}
	reg, err := abbreviator.BuildRegistry(defs)
	if err != nil {
		return nil, fmt.Errorf("building abbreviation list: %w", err)
	}
	return reg, nil
}

// storeOpenError carries the cache location for hints.
type storeOpenError struct {
	Path string
	Err  error
}

func (e *storeOpenError) Error() string {
	return fmt.Sprintf("opening cache %s: %v", e.Path, e.Err)
}

func (e *storeOpenError) Unwrap() error { return e.Err }

// openStore opens the configured decision store. A nil store means the
// cache is disabled.
func openStore(ctx context.Context, cfg *config.Config) (abbreviator.Store, error) {
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		return abbreviator.NewMemoryStore(cfg.Cache.TTLDuration()), nil
	case config.CacheSQLite:
		path, err := cachePath(cfg)
		if err != nil {
			return nil, &storeOpenError{Path: path, Err: fmt.Errorf("%w: %v", abbreviator.ErrStore, err)}
		}
		store, err := abbreviator.OpenSQLiteStore(ctx, path)
		if err != nil {
			return nil, &storeOpenError{Path: path, Err: err}
		}
		return store, nil
	default:
		return nil, nil
	}
}

// cachePath returns cache.path, or decisions.db in the user cache directory.
func cachePath(cfg *config.Config) (string, error) {
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.AppName, DefaultCacheFile), nil
}

// newProcessor wires the registry, the content filter and the stylesheet.
func newProcessor(s *settings, reg *abbreviator.Registry, store abbreviator.Store, noStyle bool) (*abbreviator.Processor, error) {
	filterOpts := []abbreviator.FilterOption{
		abbreviator.WithWatchedFiles(s.watchedFiles()...),
		abbreviator.WithFilterLogger(s.logger),
	}
	opts := []abbreviator.Option{
		abbreviator.WithContentFilter(abbreviator.NewContentFilter(store, filterOpts...)),
		abbreviator.WithLogger(s.logger),
	}
	if !noStyle {
		opts = append(opts,
			abbreviator.WithStyle(s.cfg.Style.Name),
			abbreviator.WithStyleDir(s.cfg.Style.BasePath))
	}
	return abbreviator.NewProcessor(reg, opts...)
}

// watchedFiles are the files whose changes make cached decisions stale: the
// config file itself and watch.files.
func (s *settings) watchedFiles() []string {
	files := make([]string, 0, len(s.cfg.Watch.Files)+1)
	if s.configPath != "" {
		files = append(files, s.configPath)
	}
	return append(files, s.cfg.Watch.Files...)
}
