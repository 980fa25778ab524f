package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-abbreviator/internal/config"
)

// envPrefix namespaces the environment variables read by the CLI.
const envPrefix = "ABBREVIATOR_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML edits.
type envConfig struct {
	ConfigPath string // ABBREVIATOR_CONFIG: config file name or path
	InputDir   string // ABBREVIATOR_INPUT_DIR: default input directory
	OutputDir  string // ABBREVIATOR_OUTPUT_DIR: default output directory
	Cache      string // ABBREVIATOR_CACHE: none, memory, sqlite
	CachePath  string // ABBREVIATOR_CACHE_PATH: sqlite database file
	Style      string // ABBREVIATOR_STYLE: style name, path or CSS
	Workers    int    // ABBREVIATOR_WORKERS: parallel workers
}

// knownEnvVars lists valid ABBREVIATOR_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"ABBREVIATOR_CONFIG":     true,
	"ABBREVIATOR_INPUT_DIR":  true,
	"ABBREVIATOR_OUTPUT_DIR": true,
	"ABBREVIATOR_CACHE":      true,
	"ABBREVIATOR_CACHE_PATH": true,
	"ABBREVIATOR_STYLE":      true,
	"ABBREVIATOR_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// An unparsable ABBREVIATOR_WORKERS is ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("ABBREVIATOR_CONFIG"),
		InputDir:   os.Getenv("ABBREVIATOR_INPUT_DIR"),
		OutputDir:  os.Getenv("ABBREVIATOR_OUTPUT_DIR"),
		Cache:      os.Getenv("ABBREVIATOR_CACHE"),
		CachePath:  os.Getenv("ABBREVIATOR_CACHE_PATH"),
		Style:      os.Getenv("ABBREVIATOR_STYLE"),
	}

	if workers := os.Getenv("ABBREVIATOR_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized ABBREVIATOR_*
// variable, e.g. ABBREVIATOR_CAHCE.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays environment values on the loaded config.
// Precedence: CLI flags > env vars > config file > defaults; flags are
// applied afterwards by each command.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Cache != "" {
		cfg.Cache.Backend = strings.ToLower(env.Cache)
	}
	if env.CachePath != "" {
		cfg.Cache.Path = env.CachePath
	}
	if env.Style != "" {
		cfg.Style.Name = env.Style
	}
}
