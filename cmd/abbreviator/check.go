package main

import (
	"context"
	"fmt"
)

// checkReport is the JSON form of one file's decision.
type checkReport struct {
	Path                       string `json:"path"`
	HasAbbreviations           bool   `json:"hasAbbreviations"`
	HasAbbreviationsInsideTags bool   `json:"hasAbbreviationsInsideTags"`
	BracketsBalanced           bool   `json:"bracketsBalanced"`
	Strategy                   string `json:"strategy"`
	Cached                     bool   `json:"cached"`
	Error                      string `json:"error,omitempty"`
}

// runCheck reports, per file, what apply would do without writing anything.
func runCheck(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseCheckFlags(args, env)
	if err != nil {
		return err
	}

	sess, err := newSession(ctx, sessionFlags{
		common: f.common,
		source: f.source,
		cache:  f.cache,
		style:  styleFlags{noStyle: true},
	}, positional, env)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	files, err := sess.discover()
	if err != nil {
		return err
	}

	results := processBatch(ctx, sess.processor, files, batchOptions{workers: sess.workers, dryRun: true, logger: sess.logger}, env)

	reports := make([]checkReport, len(results))
	failed := 0
	for i, r := range results {
		reports[i] = checkReport{
			Path:                       r.InputPath,
			HasAbbreviations:           r.Decision.HasAbbreviations,
			HasAbbreviationsInsideTags: r.Decision.HasAbbreviationsInsideTags,
			BracketsBalanced:           r.Decision.BracketsBalanced,
			Strategy:                   r.Decision.Strategy.String(),
			Cached:                     r.Cached,
		}
		if r.Err != nil {
			reports[i].Error = r.Err.Error()
			failed++
		}
	}

	if f.json {
		if err := writeJSON(env, reports); err != nil {
			return err
		}
	} else {
		printCheckReports(reports, env)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBatchFailed, failed, len(results))
	}
	return nil
}

// printCheckReports prints one line per file.
func printCheckReports(reports []checkReport, env *Environment) {
	for _, r := range reports {
		if r.Error != "" {
			fmt.Fprintf(env.Stderr, "FAILED %s: %s\n", r.Path, r.Error)
			continue
		}
		if !r.HasAbbreviations {
			fmt.Fprintf(env.Stdout, "%s: no abbreviations\n", r.Path)
			continue
		}
		fmt.Fprintf(env.Stdout, "%s: %s (inside tags: %s, brackets balanced: %s%s)\n",
			r.Path, r.Strategy, yesNo(r.HasAbbreviationsInsideTags), yesNo(r.BracketsBalanced), cachedNote(r.Cached))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func cachedNote(cached bool) string {
	if cached {
		return ", cached"
	}
	return ""
}
