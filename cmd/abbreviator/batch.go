package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	abbreviator "github.com/alnah/go-abbreviator"
	"github.com/alnah/go-abbreviator/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrReadInput   = errors.New("failed to read input file")
	ErrWriteOutput = errors.New("failed to write output file")
	ErrBatchFailed = errors.New("some files failed")
)

// DocumentProcessor is the interface for the rewriting service.
type DocumentProcessor interface {
	Process(ctx context.Context, in abbreviator.Input) (*abbreviator.Result, error)
}

// Compile-time interface implementation check.
var _ DocumentProcessor = (*abbreviator.Processor)(nil)

// FileResult holds the outcome of a single file.
type FileResult struct {
	InputPath  string
	OutputPath string
	Decision   abbreviator.Decision
	Cached     bool
	Err        error
	Duration   time.Duration
}

// batchOptions controls a batch run.
type batchOptions struct {
	workers int  // 0 = auto
	dryRun  bool // check only: decide but do not write
	logger  *slog.Logger
}

func (o batchOptions) log() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.logger
}

// processBatch processes files concurrently. Results keep the order of files.
func processBatch(ctx context.Context, proc DocumentProcessor, files []FileToProcess, opts batchOptions, env *Environment) []FileResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(abbreviator.ResolveWorkers(opts.workers), len(files))

	results := make([]FileResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = FileResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = processFile(ctx, proc, files[idx], opts, env)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// processFile reads, rewrites and writes a single file.
func processFile(ctx context.Context, proc DocumentProcessor, f FileToProcess, opts batchOptions, env *Environment) FileResult {
	start := env.Now()
	result := FileResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	done := func(err error) FileResult {
		result.Err = err
		result.Duration = env.Now().Sub(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return done(fmt.Errorf("%w: %v", ErrReadInput, err))
	}

	id, err := filepath.Abs(f.InputPath)
	if err != nil {
		id = f.InputPath
	}
	modified := modTime(f.InputPath, opts.log())

	res, err := proc.Process(ctx, abbreviator.Input{
		ID:       id,
		Modified: modified,
		Content:  string(content),
		Format:   f.Format,
	})
	if err != nil {
		return done(err)
	}
	result.Decision = res.Decision
	result.Cached = res.Cached

	if opts.dryRun {
		return done(nil)
	}

	if f.OutputPath == stdoutPath {
		if _, err := fmt.Fprint(env.Stdout, res.Content); err != nil {
			return done(fmt.Errorf("%w: %v", ErrWriteOutput, err))
		}
		return done(nil)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return done(fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err))
	}
	// #nosec G306 -- HTML files are meant to be readable
	if err := fileutil.WriteFileAtomic(f.OutputPath, []byte(res.Content), filePermissions); err != nil {
		return done(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}
	return done(nil)
}

// ResultSummary holds the count of succeeded and failed files.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Rewritten int
}

// countResults tallies succeeded and failed files.
func countResults(results []FileResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Decision.HasAbbreviations:
			summary.Succeeded++
			summary.Rewritten++
		default:
			summary.Succeeded++
		}
	}
	return summary
}

// printResults reports batch results and returns the number of failures.
// Nothing but errors is printed when output goes to stdout.
func printResults(results []FileResult, f commonFlags, env *Environment) int {
	summary := countResults(results)
	toStdout := len(results) == 1 && results[0].OutputPath == stdoutPath

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if f.quiet || toStdout {
			continue
		}

		if f.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, cached=%t, %v)\n",
				r.InputPath, r.OutputPath, r.Decision.Strategy, r.Cached, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !f.quiet && !toStdout && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded (%d with abbreviations), %d failed\n",
			summary.Succeeded, summary.Rewritten, summary.Failed)
	}

	return summary.Failed
}

// modTime returns the modification time of path, or the zero time when it
// cannot be read.
func modTime(path string, log *slog.Logger) time.Time {
	mt, ok := fileutil.ModTime(path)
	if !ok {
		log.Debug("modification time unavailable, cached decisions rely on content", "path", path)
	}
	return mt
}
