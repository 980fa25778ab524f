package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// sourceFlags select and filter input files.
type sourceFlags struct {
	include []string
	exclude []string
}

// cacheFlags override the cache section of the config.
type cacheFlags struct {
	backend string
	path    string
}

// styleFlags override the style section of the config.
type styleFlags struct {
	style   string
	dir     string
	noStyle bool
}

// applyFlags holds all flags for the apply and watch commands.
type applyFlags struct {
	common   commonFlags
	output   string
	workers  int
	source   sourceFlags
	cache    cacheFlags
	style    styleFlags
	debounce string // watch only
}

// checkFlags holds flags for the check command.
type checkFlags struct {
	common commonFlags
	source sourceFlags
	cache  cacheFlags
	json   bool
}

// listFlags holds flags for the list command.
type listFlags struct {
	common commonFlags
}

// defineFlags holds flags for the define command.
type defineFlags struct {
	common        commonFlags
	abbreviations []string
	meanings      []string
	replace       bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logging")
}

// addSourceFlags adds discovery flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringArrayVar(&f.include, "include", nil, "glob of files to process (repeatable)")
	fs.StringArrayVar(&f.exclude, "exclude", nil, "glob of files to skip (repeatable)")
}

// addCacheFlags adds cache flags to a FlagSet.
func addCacheFlags(fs *flag.FlagSet, f *cacheFlags) {
	fs.StringVar(&f.backend, "cache", "", "decision cache: none, memory, sqlite")
	fs.StringVar(&f.path, "cache-path", "", "sqlite cache file")
}

// addStyleFlags adds stylesheet flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.style, "style", "", "style name, CSS file path, or CSS")
	fs.StringVar(&f.dir, "style-dir", "", "directory of custom {name}.css styles")
	fs.BoolVar(&f.noStyle, "no-style", false, "do not inject a stylesheet")
}

// newFlagSet creates a FlagSet that reports errors through ErrUsage.
func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parse runs fs.Parse. pflag has already printed usage when it returns an
// error; --help comes back as flag.ErrHelp unwrapped.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// parseApplyFlags parses apply (and watch) flags and returns positional args.
func parseApplyFlags(name string, args []string, env *Environment) (*applyFlags, []string, error) {
	usage := printApplyUsage
	if name == "watch" {
		usage = printWatchUsage
	}
	fs := newFlagSet(name, env.Stderr, usage)
	f := &applyFlags{}

	fs.StringVarP(&f.output, "output", "o", "", `output file or directory ("-" = stdout)`)
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	if name == "watch" {
		fs.StringVar(&f.debounce, "debounce", "", "delay before re-applying (e.g. 200ms)")
	}

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)
	addCacheFlags(fs, &f.cache)
	addStyleFlags(fs, &f.style)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCheckFlags parses check command flags and returns positional args.
func parseCheckFlags(args []string, env *Environment) (*checkFlags, []string, error) {
	fs := newFlagSet("check", env.Stderr, printCheckUsage)
	f := &checkFlags{}

	fs.BoolVar(&f.json, "json", false, "print decisions as JSON")
	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)
	addCacheFlags(fs, &f.cache)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseListFlags parses list command flags.
func parseListFlags(args []string, env *Environment) (*listFlags, []string, error) {
	fs := newFlagSet("list", env.Stderr, printListUsage)
	f := &listFlags{}
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseDefineFlags parses define command flags.
func parseDefineFlags(args []string, env *Environment) (*defineFlags, []string, error) {
	fs := newFlagSet("define", env.Stderr, printDefineUsage)
	f := &defineFlags{}

	fs.StringArrayVarP(&f.abbreviations, "abbr", "a", nil, "abbreviation (repeatable)")
	fs.StringArrayVarP(&f.meanings, "meaning", "m", nil, "meaning of the matching --abbr (repeatable)")
	fs.BoolVar(&f.replace, "replace", false, "update the meaning of existing abbreviations")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
