package main

import (
	"encoding/json"
	"fmt"
)

// runList prints the configured abbreviations as a JSON object mapping each
// abbreviation to its meaning.
func runList(args []string, env *Environment) error {
	f, positional, err := parseListFlags(args, env)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: list takes no arguments", ErrUsage)
	}

	s, err := loadSettings(f.common, env)
	if err != nil {
		return err
	}
	reg, err := buildRegistry(s.cfg)
	if err != nil {
		return err
	}
	return writeJSON(env, reg.AsMap())
}

// writeJSON prints v indented, without escaping '<', '>' and '&'.
// Map keys come out sorted.
func writeJSON(env *Environment, v any) error {
	enc := json.NewEncoder(env.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
