package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tiliavir/trivial-reminder/internal/definitions"
)

// Config is the root configuration for trm, stored in ~/.trm/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Parser  ParserConfig  `json:"parser"`
	Storage StorageConfig `json:"storage"`
}

// ParserConfig selects the definition sources and matching options.
type ParserConfig struct {
	// TemplatesFile, DefinitionsFile and ReplacementsFile point at custom
	// definition sources. Empty = built-in English defaults.
	TemplatesFile    string `json:"templates_file"`
	DefinitionsFile  string `json:"definitions_file"`
	ReplacementsFile string `json:"replacements_file"`
	// FillerWords are ignored wherever they appear in reminder text.
	FillerWords []string `json:"filler_words"`
	// Timezone is the IANA timezone reminders are interpreted in. Empty = local.
	Timezone string `json:"timezone"`
}

// StorageConfig selects where reminders are kept.
type StorageConfig struct {
	// Driver is "files" (one JSON file per day) or "sqlite".
	Driver string `json:"driver"`
	// SQLitePath is the database file used by the sqlite driver.
	// Empty = ~/.trm/reminders.db.
	SQLitePath string `json:"sqlite_path"`
}

const (
	// DriverFiles stores reminders as daily JSON files below the data dir.
	DriverFiles = "files"
	// DriverSQLite stores reminders in a SQLite database.
	DriverSQLite = "sqlite"
)

// DefaultFillerWords are dropped from reminder text before matching.
var DefaultFillerWords = []string{"o'clock"}

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Parser: ParserConfig{
			FillerWords: append([]string(nil), DefaultFillerWords...),
		},
		Storage: StorageConfig{
			Driver: DriverFiles,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// trm configuration – ~/.trm/config.json
//
// All settings are optional; the built-in defaults shown below work out of
// the box. Edit this file to customise trm behaviour.
{
  // ── Reminder text parsing ────────────────────────────────────────────────
  "parser": {
    // Custom definition sources. Leave empty to use the built-in English ones.
    // templates:    one pattern per line, e.g. "in [DURATION] [UNIT] [TEXT];+"
    // definitions:  units and relative dates, e.g. "day=day,days"
    // replacements: words rewritten in the reminder text, e.g. "doctor=dr,doc"
    "templates_file": "",
    "definitions_file": "",
    "replacements_file": "",

    // Words ignored wherever they appear, e.g. "at 7 o'clock wake up".
    "filler_words": ["o'clock"],

    // IANA timezone reminders are interpreted in, e.g. "Europe/Vienna".
    // Leave empty to use the local timezone.
    "timezone": ""
  },

  // ── Storage ──────────────────────────────────────────────────────────────
  "storage": {
    // "files"  – one JSON file per day below ~/.trm (default)
    // "sqlite" – a single SQLite database
    "driver": "files",

    // Database file for the sqlite driver. Empty = ~/.trm/reminders.db
    "sqlite_path": ""
  }
}
`

// DefaultPath returns the path to ~/.trm/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".trm", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config file at path, creating it with annotated defaults on
// first run. Lines starting with // are treated as comments and stripped
// before JSON parsing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if cfg.Parser.FillerWords == nil {
		cfg.Parser.FillerWords = append([]string(nil), DefaultFillerWords...)
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverFiles
	}
	if cfg.Storage.Driver != DriverFiles && cfg.Storage.Driver != DriverSQLite {
		return defaultConfig(), fmt.Errorf("config file %s: unknown storage driver %q", path, cfg.Storage.Driver)
	}
	if _, err := cfg.Location(); err != nil {
		return defaultConfig(), fmt.Errorf("config file %s: %w", path, err)
	}

	return cfg, nil
}

// Location returns the configured timezone, or time.Local when unset.
func (c Config) Location() (*time.Location, error) {
	if c.Parser.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Parser.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Parser.Timezone, err)
	}
	return loc, nil
}

// DefinitionPaths returns the definition sources selected by the config.
func (c Config) DefinitionPaths() definitions.Paths {
	return definitions.Paths{
		Templates:    c.Parser.TemplatesFile,
		Definitions:  c.Parser.DefinitionsFile,
		Replacements: c.Parser.ReplacementsFile,
	}
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
