package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if len(cfg.Abbreviations) != 0 {
		t.Errorf("Abbreviations = %v, want none", cfg.Abbreviations)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, CacheNone)
	}
	if cfg.Style.Name != "default" {
		t.Errorf("Style.Name = %q, want default", cfg.Style.Name)
	}
	if diff := cmp.Diff([]string{DefaultInclude}, cfg.Discovery.Include); diff != "" {
		t.Errorf("Discovery.Include mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value over limit returns error", "12345678901", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Fatalf("error = %v, want ErrFieldTooLong", err)
				}
				if !strings.Contains(err.Error(), "test.field") {
					t.Errorf("error %q should name the field", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate - Field checks
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
		field   string
	}{
		{
			name:   "valid full config",
			mutate: func(c *Config) {
				c.Cache = CacheConfig{Backend: "SQLite", Path: "cache.db"}
				c.Watch.Files = []string{"a.yaml"}
			},
		},
		{
			name:    "abbreviation too long",
			mutate:  func(c *Config) { c.Abbreviations = []Abbreviation{{Abbreviation: strings.Repeat("A", MaxAbbreviationLength+1), Meaning: "m"}} },
			wantErr: ErrFieldTooLong,
			field:   "abbreviations[0].abbreviation",
		},
		{
			name:    "meaning too long",
			mutate:  func(c *Config) { c.Abbreviations = []Abbreviation{{"A", "m"}, {"B", strings.Repeat("m", MaxMeaningLength+1)}} },
			wantErr: ErrFieldTooLong,
			field:   "abbreviations[1].meaning",
		},
		{
			name:    "unknown cache backend",
			mutate:  func(c *Config) { c.Cache.Backend = "redis" },
			wantErr: ErrInvalidValue,
			field:   "cache.backend",
		},
		{
			name:    "bad ttl",
			mutate:  func(c *Config) { c.Cache.TTL = "soon" },
			wantErr: ErrInvalidValue,
			field:   "cache.ttl",
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.Watch.Debounce = "-1s" },
			wantErr: ErrInvalidValue,
			field:   "watch.debounce",
		},
		{
			name:    "bad include glob",
			mutate:  func(c *Config) { c.Discovery.Include = []string{"**/*.{html"} },
			wantErr: ErrInvalidValue,
			field:   "discovery.include[0]",
		},
		{
			name:    "bad exclude glob",
			mutate:  func(c *Config) { c.Discovery.Exclude = []string{"drafts/**", "[z-a"} },
			wantErr: ErrInvalidValue,
			field:   "discovery.exclude[1]",
		},
		{
			name:    "style name too long",
			mutate:  func(c *Config) { c.Style.Name = strings.Repeat("s", MaxStyleLength+1) },
			wantErr: ErrFieldTooLong,
			field:   "style.name",
		},
		{
			name:   "literal CSS style is not length checked as a name",
			mutate: func(c *Config) { c.Style.Name = "abbr { " + strings.Repeat("x", MaxStyleLength) + " }" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should mention %q", err, tt.field)
			}
		})
	}
}

func TestConfig_ValidateNil(t *testing.T) {
	t.Parallel()

	var cfg *Config
	if err := cfg.Validate(); err != nil {
		t.Errorf("nil Validate() = %v", err)
	}
}

func TestDurations(t *testing.T) {
	t.Parallel()

	if got := (CacheConfig{TTL: "90m"}).TTLDuration(); got != 90*time.Minute {
		t.Errorf("TTLDuration() = %v", got)
	}
	if got := (CacheConfig{}).TTLDuration(); got != 0 {
		t.Errorf("TTLDuration() unset = %v", got)
	}
	if got := (WatchConfig{Debounce: "50ms"}).DebounceDuration(time.Second); got != 50*time.Millisecond {
		t.Errorf("DebounceDuration() = %v", got)
	}
	if got := (WatchConfig{}).DebounceDuration(time.Second); got != time.Second {
		t.Errorf("DebounceDuration() fallback = %v", got)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File loading and name resolution
// ---------------------------------------------------------------------------

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_File(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "site.yaml", `abbreviations:
  - abbreviation: FUBAR
    meaning: Fouled Up Beyond All Recognition
  - abbreviation: SNAFU
    meaning: Situation Normal All Fouled Up
cache:
  backend: sqlite
  path: .cache/abbr.db
watch:
  files: [glossary.yaml]
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}

	want := []Abbreviation{
		{Abbreviation: "FUBAR", Meaning: "Fouled Up Beyond All Recognition"},
		{Abbreviation: "SNAFU", Meaning: "Situation Normal All Fouled Up"},
	}
	if diff := cmp.Diff(want, cfg.Abbreviations); diff != "" {
		t.Errorf("Abbreviations mismatch (-want +got):\n%s", diff)
	}
	if cfg.Cache.Backend != CacheSQLite || cfg.Cache.Path != ".cache/abbr.db" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if diff := cmp.Diff([]string{"glossary.yaml"}, cfg.Watch.Files); diff != "" {
		t.Errorf("Watch.Files mismatch (-want +got):\n%s", diff)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Style.Name != "default" || cfg.Watch.Debounce != "200ms" {
		t.Errorf("defaults lost: style=%q debounce=%q", cfg.Style.Name, cfg.Watch.Debounce)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	unknownKey := writeConfig(t, dir, "unknown.yaml", "abbreviations: []\ntheme: dark\n")
	invalid := writeConfig(t, dir, "invalid.yaml", "cache:\n  backend: redis\n")

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty name", "", ErrEmptyConfigName},
		{"missing file path", filepath.Join(dir, "missing.yaml"), ErrConfigNotFound},
		{"unknown key", unknownKey, ErrConfigParse},
		{"invalid value", invalid, ErrInvalidValue},
		{"unknown name", "no-such-config-name-for-tests", ErrConfigNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfig(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestResolvePath_NotFoundListsLocations(t *testing.T) {
	t.Parallel()

	_, err := ResolvePath("no-such-config-name-for-tests")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("ResolvePath() error = %v, want *NotFoundError", err)
	}
	if len(nf.Tried) < 2 || nf.Tried[0] != "no-such-config-name-for-tests.yaml" {
		t.Errorf("Tried = %v", nf.Tried)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "site.yaml")
	cfg := DefaultConfig()
	cfg.Abbreviations = []Abbreviation{{Abbreviation: "R&D", Meaning: `Research "and" Development`}}
	cfg.Cache.Backend = CacheMemory
	cfg.Cache.TTL = "1h"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig() unexpected error: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() unexpected error: %v", err)
	}
	if diff := cmp.Diff(cfg, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveConfig_RejectsInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "site.yaml")
	cfg := DefaultConfig()
	cfg.Cache.Backend = "redis"

	if err := SaveConfig(path, cfg); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("SaveConfig() error = %v, want ErrInvalidValue", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid config was written")
	}
}
