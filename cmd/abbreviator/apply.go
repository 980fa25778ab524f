package main

import (
	"context"
	"fmt"

	abbreviator "github.com/alnah/go-abbreviator"
)

// session is everything a processing command needs once flags, config and
// environment are merged.
type session struct {
	*settings
	registry  *abbreviator.Registry
	store     abbreviator.Store
	processor *abbreviator.Processor
	discovery discovery
	inputs    []string
	output    string
}

// Close releases the decision store.
func (s *session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// discover resolves every input to the files to process.
func (s *session) discover() ([]FileToProcess, error) {
	var files []FileToProcess
	for _, input := range s.inputs {
		found, err := s.discovery.discoverFiles(input, s.output)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	if len(files) > 1 && isSingleOutput(s.output) {
		return nil, fmt.Errorf("%w: %s", ErrSingleOutput, s.output)
	}
	return files, nil
}

// sessionFlags are the flags shared by apply, watch and check.
type sessionFlags struct {
	common  commonFlags
	source  sourceFlags
	cache   cacheFlags
	style   styleFlags
	output  string
	workers int
}

// newSession loads settings, then builds the registry, store and processor.
// The caller must Close the session.
func newSession(ctx context.Context, f sessionFlags, positional []string, env *Environment) (*session, error) {
	if err := validateWorkers(f.workers); err != nil {
		return nil, err
	}

	s, err := loadSettings(f.common, env)
	if err != nil {
		return nil, err
	}
	if f.workers > 0 {
		s.workers = f.workers
	}
	if f.style.style != "" {
		s.cfg.Style.Name = f.style.style
	}
	if f.style.dir != "" {
		s.cfg.Style.BasePath = f.style.dir
	}
	if err := s.applyCacheFlags(f.cache); err != nil {
		return nil, err
	}

	reg, err := buildRegistry(s.cfg)
	if err != nil {
		return nil, err
	}
	if reg.Len() == 0 {
		s.logger.Warn("no abbreviations defined, documents are copied unchanged")
	}

	store, err := openStore(ctx, s.cfg)
	if err != nil {
		return nil, err
	}

	proc, err := newProcessor(s, reg, store, f.style.noStyle)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}

	sess := &session{
		settings:  s,
		registry:  reg,
		store:     store,
		processor: proc,
		discovery: discovery{
			include: s.cfg.Discovery.Include,
			exclude: append(append([]string(nil), s.cfg.Discovery.Exclude...), f.source.exclude...),
		},
		inputs: positional,
		output: f.output,
	}
	if len(f.source.include) > 0 {
		sess.discovery.include = f.source.include
	}
	if len(sess.inputs) == 0 && s.cfg.Input.DefaultDir != "" {
		sess.inputs = []string{s.cfg.Input.DefaultDir}
	}
	if len(sess.inputs) == 0 {
		_ = sess.Close()
		return nil, ErrNoInput
	}
	if sess.output == "" {
		sess.output = s.cfg.Output.DefaultDir
	}
	return sess, nil
}

// runApply rewrites the given files or directories.
func runApply(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseApplyFlags("apply", args, env)
	if err != nil {
		return err
	}

	sess, err := newSession(ctx, f.session(), positional, env)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	files, err := sess.discover()
	if err != nil {
		return err
	}

	results := processBatch(ctx, sess.processor, files, batchOptions{workers: sess.workers, logger: sess.logger}, env)
	if failed := printResults(results, f.common, env); failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBatchFailed, failed, len(results))
	}
	return nil
}

// session extracts the flags newSession reads.
func (f *applyFlags) session() sessionFlags {
	return sessionFlags{
		common:  f.common,
		source:  f.source,
		cache:   f.cache,
		style:   f.style,
		output:  f.output,
		workers: f.workers,
	}
}
