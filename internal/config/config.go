package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/alnah/go-abbreviator/internal/fileutil"
	"github.com/alnah/go-abbreviator/internal/yamlutil"
)

// AppName names the per-user config directory.
const AppName = "go-abbreviator"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
	ErrMismatchedRows  = errors.New("abbreviation and meaning counts differ")
)

// Field length limits.
const (
	MaxAbbreviationLength = 64
	MaxMeaningLength      = 500
	MaxAbbreviations      = 5000
	MaxPathLength         = 4096
	MaxPatternLength      = 512
	MaxStyleLength        = 100
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
)

// DefaultInclude matches every supported source file.
const DefaultInclude = "**/*.{html,htm,md,markdown}"

// Config holds the abbreviation list and the settings of the CLI.
type Config struct {
	Abbreviations []Abbreviation  `yaml:"abbreviations"`
	Input         InputConfig     `yaml:"input"`
	Output        OutputConfig    `yaml:"output"`
	Cache         CacheConfig     `yaml:"cache"`
	Watch         WatchConfig     `yaml:"watch"`
	Style         StyleConfig     `yaml:"style"`
	Discovery     DiscoveryConfig `yaml:"discovery"`
}

// Abbreviation is one configured entry. Blank fields are rejected when the
// registry is built, with the entry's position.
type Abbreviation struct {
	Abbreviation string `yaml:"abbreviation"`
	Meaning      string `yaml:"meaning"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // used when no input argument is given
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
}

// CacheConfig selects where rewrite decisions are remembered.
type CacheConfig struct {
	Backend string `yaml:"backend"` // none, memory or sqlite
	Path    string `yaml:"path"`    // sqlite database file
	TTL     string `yaml:"ttl"`     // memory backend only, e.g. "1h"; empty = forever
}

// WatchConfig lists auxiliary files that invalidate cached decisions.
type WatchConfig struct {
	Files    []string `yaml:"files"`
	Debounce string   `yaml:"debounce"` // e.g. "200ms"
}

// StyleConfig selects the stylesheet injected into rewritten documents.
type StyleConfig struct {
	Name     string `yaml:"name"`     // style name, file path or CSS; empty = none
	BasePath string `yaml:"basePath"` // directory of custom {name}.css files
}

// DiscoveryConfig filters the files found under an input directory.
type DiscoveryConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// Validate checks lengths, enumerations, durations and glob syntax.
// Called by LoadConfig and SaveConfig.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}

	if len(c.Abbreviations) > MaxAbbreviations {
		return fmt.Errorf("%w: abbreviations: %d entries (max %d)", ErrInvalidValue, len(c.Abbreviations), MaxAbbreviations)
	}
	for i, a := range c.Abbreviations {
		if err := validateFieldLength(fmt.Sprintf("abbreviations[%d].abbreviation", i), a.Abbreviation, MaxAbbreviationLength); err != nil {
			return err
		}
		if err := validateFieldLength(fmt.Sprintf("abbreviations[%d].meaning", i), a.Meaning, MaxMeaningLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	switch strings.ToLower(c.Cache.Backend) {
	case "", CacheNone, CacheMemory, CacheSQLite:
	default:
		return fmt.Errorf("%w: cache.backend %q (must be none, memory, or sqlite)", ErrInvalidValue, c.Cache.Backend)
	}
	if err := validateFieldLength("cache.path", c.Cache.Path, MaxPathLength); err != nil {
		return err
	}
	if _, err := parseDuration("cache.ttl", c.Cache.TTL); err != nil {
		return err
	}

	for i, f := range c.Watch.Files {
		if err := validateFieldLength(fmt.Sprintf("watch.files[%d]", i), f, MaxPathLength); err != nil {
			return err
		}
	}
	if _, err := parseDuration("watch.debounce", c.Watch.Debounce); err != nil {
		return err
	}

	if !fileutil.IsFilePath(c.Style.Name) && !fileutil.IsCSS(c.Style.Name) {
		if err := validateFieldLength("style.name", c.Style.Name, MaxStyleLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("style.basePath", c.Style.BasePath, MaxPathLength); err != nil {
		return err
	}

	if err := validatePatterns("discovery.include", c.Discovery.Include); err != nil {
		return err
	}
	return validatePatterns("discovery.exclude", c.Discovery.Exclude)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validatePatterns(field string, patterns []string) error {
	for i, p := range patterns {
		name := fmt.Sprintf("%s[%d]", field, i)
		if err := validateFieldLength(name, p, MaxPatternLength); err != nil {
			return err
		}
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %s: bad glob %q", ErrInvalidValue, name, p)
		}
	}
	return nil
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %s %q (want a duration like 200ms or 1h)", ErrInvalidValue, field, value)
	}
	return d, nil
}

// TTLDuration returns the parsed cache.ttl, zero when unset.
func (c CacheConfig) TTLDuration() time.Duration {
	d, _ := parseDuration("cache.ttl", c.TTL)
	return d
}

// DebounceDuration returns the parsed watch.debounce, or fallback when unset.
func (w WatchConfig) DebounceDuration(fallback time.Duration) time.Duration {
	d, _ := parseDuration("watch.debounce", w.Debounce)
	if d == 0 {
		return fallback
	}
	return d
}

// DefaultConfig returns the settings used when no config file is given:
// no abbreviations, no cache, the default style and every supported file.
func DefaultConfig() *Config {
	return &Config{
		Cache:     CacheConfig{Backend: CacheNone},
		Watch:     WatchConfig{Debounce: "200ms"},
		Style:     StyleConfig{Name: "default"},
		Discovery: DiscoveryConfig{Include: []string{DefaultInclude}},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	path, err := ResolvePath(nameOrPath)
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads and validates the config file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.Decode(data, cfg, yamlutil.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig validates cfg and writes it to path atomically, creating the
// parent directory if needed.
func SaveConfig(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yamlutil.Encode(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// ResolvePath turns a config name or path into a file path.
// Names are tried as {name}.yaml and {name}.yml in the current directory,
// then in the user config directory under go-abbreviator/.
func ResolvePath(nameOrPath string) (string, error) {
	if nameOrPath == "" {
		return "", ErrEmptyConfigName
	}
	if fileutil.IsFilePath(nameOrPath) {
		return nameOrPath, nil
	}

	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		p := nameOrPath + ext
		if fileutil.FileExists(p) {
			return p, nil
		}
		tried = append(tried, p)
	}

	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			p := filepath.Join(dir, AppName, nameOrPath+ext)
			if fileutil.FileExists(p) {
				return p, nil
			}
			tried = append(tried, p)
		}
	}

	return "", &NotFoundError{Tried: tried}
}

// NotFoundError lists the locations searched for a config name.
type NotFoundError struct {
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: tried %s", ErrConfigNotFound, strings.Join(e.Tried, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// UserConfigPath returns where a named config lives in the user config
// directory, whether or not it exists.
func UserConfigPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, name+".yaml"), nil
}
