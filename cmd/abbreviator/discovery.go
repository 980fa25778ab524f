package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	abbreviator "github.com/alnah/go-abbreviator"
)

// OutputSuffix replaces the source extension in output file names. Files
// carrying it are never picked up as sources.
const OutputSuffix = ".abbr.html"

// stdoutPath as --output writes the single result to stdout.
const stdoutPath = "-"

// Sentinel errors for file discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoFiles            = errors.New("no files to process")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrSingleOutput       = errors.New("output is a single file but several sources matched")
)

// FileToProcess represents a single file to process.
type FileToProcess struct {
	InputPath  string
	OutputPath string // stdoutPath writes to stdout
	Format     abbreviator.Format
}

// discovery selects source files below a directory.
type discovery struct {
	include []string
	exclude []string
}

// formatFor returns the format of a source path, rejecting our own outputs.
func formatFor(path string) (abbreviator.Format, error) {
	if isOutput(path) {
		return 0, fmt.Errorf("%w: %s is an output file", abbreviator.ErrUnsupportedFormat, filepath.Base(path))
	}
	return abbreviator.FormatFromPath(path)
}

func isOutput(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), OutputSuffix)
}

// discoverFiles finds the files to process. inputPath may be a file or a
// directory; directories are searched with d.include and d.exclude.
func (d discovery) discoverFiles(inputPath, outputDir string) ([]FileToProcess, error) {
	if inputPath == "" {
		return nil, ErrNoInput
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		format, err := formatFor(inputPath)
		if err != nil {
			return nil, err
		}
		return []FileToProcess{{
			InputPath:  inputPath,
			OutputPath: resolveOutputPath(inputPath, outputDir, ""),
			Format:     format,
		}}, nil
	}

	paths, err := d.match(inputPath, outputDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, inputPath)
	}

	files := make([]FileToProcess, 0, len(paths))
	for _, path := range paths {
		format, err := formatFor(path)
		if err != nil {
			// Include patterns may match any extension.
			continue
		}
		files = append(files, FileToProcess{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, outputDir, inputPath),
			Format:     format,
		})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, inputPath)
	}

	if len(files) > 1 && isSingleOutput(outputDir) {
		return nil, fmt.Errorf("%w: %s", ErrSingleOutput, outputDir)
	}
	return files, nil
}

// match returns the sorted, deduplicated paths below dir that match an
// include pattern and no exclude pattern. Files under outputDir are skipped.
func (d discovery) match(dir, outputDir string) ([]string, error) {
	include := d.include
	if len(include) == 0 {
		include = []string{"**/*"}
	}

	fsys := os.DirFS(dir)
	var rels []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%w: include %q: %v", ErrUsage, pattern, err)
		}
		rels = append(rels, matches...)
	}
	slices.Sort(rels)
	rels = slices.Compact(rels)

	outAbs := ""
	if outputDir != "" && !isSingleOutput(outputDir) {
		outAbs, _ = filepath.Abs(outputDir)
	}

	paths := make([]string, 0, len(rels))
	for _, rel := range rels {
		excluded, err := d.excluded(rel)
		if err != nil {
			return nil, err
		}
		if excluded || isOutput(rel) {
			continue
		}
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if outAbs != "" && within(outAbs, path) {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// excluded reports whether a slash-separated relative path matches any
// exclude pattern.
func (d discovery) excluded(rel string) (bool, error) {
	for _, pattern := range d.exclude {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("%w: exclude %q: %v", ErrUsage, pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// within reports whether path lies inside the absolute directory dir.
func within(dir, path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dir, abs)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// isSingleOutput reports whether --output names one file rather than a
// directory.
func isSingleOutput(output string) bool {
	return output == stdoutPath || strings.HasSuffix(strings.ToLower(output), ".html")
}

// resolveOutputPath determines the output path for a source file.
// Without an output directory the result sits next to the source.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+OutputSuffix)
	}

	if isSingleOutput(outputDir) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+OutputSuffix)
		}
	}

	return filepath.Join(outputDir, base+OutputSuffix)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > abbreviator.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, abbreviator.MaxWorkers)
	}
	return nil
}
