package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-abbreviator/internal/config"
)

// defaultConfigName is the config define writes when none is named.
const defaultConfigName = "abbreviator"

// runDefine adds abbreviations to a config file, creating it if needed.
// Existing abbreviations are rejected unless --replace is given.
func runDefine(args []string, env *Environment) error {
	f, positional, err := parseDefineFlags(args, env)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: use --abbr and --meaning, got %q", ErrUsage, positional[0])
	}

	rows, err := config.ParseForm(f.abbreviations, f.meanings)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: nothing to define, pass --abbr and --meaning", ErrUsage)
	}

	name := f.common.config
	if name == "" {
		name = loadEnvConfig().ConfigPath
	}
	if name == "" {
		name = defaultConfigName
	}
	path, cfg, err := loadOrCreateConfig(name)
	if err != nil {
		return err
	}

	added, updated := mergeAbbreviations(cfg, rows, f.replace)

	// Validates with entry positions before anything is written.
	if _, err := buildRegistry(cfg); err != nil {
		return err
	}
	if err := config.SaveConfig(path, cfg); err != nil {
		return err
	}

	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Saved %s (%d added, %d updated, %d total)\n",
			path, added, updated, len(cfg.Abbreviations))
	}
	return nil
}

// loadOrCreateConfig loads the named config, or returns defaults and the path
// a new file should be written to. Names without an extension get ".yaml".
func loadOrCreateConfig(name string) (string, *config.Config, error) {
	path, err := config.ResolvePath(name)
	switch {
	case err == nil:
		cfg, err := config.LoadFile(path)
		if err == nil {
			return path, cfg, nil
		}
		if !errors.Is(err, config.ErrConfigNotFound) {
			return "", nil, err
		}
	case errors.Is(err, config.ErrConfigNotFound):
		path = name
		switch strings.ToLower(filepath.Ext(name)) {
		case ".yaml", ".yml":
		default:
			path = name + ".yaml"
		}
	default:
		return "", nil, err
	}
	return path, config.DefaultConfig(), nil
}

// mergeAbbreviations appends rows to cfg. With replace, a row whose
// abbreviation already exists overwrites that entry's meaning instead.
func mergeAbbreviations(cfg *config.Config, rows []config.Abbreviation, replace bool) (added, updated int) {
	for _, row := range rows {
		if replace {
			if i := indexOf(cfg.Abbreviations, row.Abbreviation); i >= 0 {
				cfg.Abbreviations[i].Meaning = row.Meaning
				updated++
				continue
			}
		}
		cfg.Abbreviations = append(cfg.Abbreviations, row)
		added++
	}
	return added, updated
}

func indexOf(entries []config.Abbreviation, abbreviation string) int {
	for i, e := range entries {
		if strings.TrimSpace(e.Abbreviation) == abbreviation {
			return i
		}
	}
	return -1
}
