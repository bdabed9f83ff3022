package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
)

// ErrInvalidSettings indicates a settings value could not be accepted.
var ErrInvalidSettings = errors.New("invalid settings")

// Journal drivers.
const (
	JournalNone   = "none"
	JournalMemory = "memory"
	JournalSQLite = "sqlite"
)

// Settings is the typed njector configuration.
type Settings struct {
	// LogLevel is the minimum level logged by the injector. Default: info.
	LogLevel slog.Level

	// Metrics enables OpenTelemetry metrics.
	Metrics bool

	// Tracing enables OpenTelemetry spans around registry operations.
	Tracing bool

	// Journal configures the registration journal.
	Journal JournalSettings
}

// JournalSettings selects where add/remove notifications are recorded.
type JournalSettings struct {
	// Driver is one of JournalNone, JournalMemory or JournalSQLite.
	Driver string

	// Path is the SQLite database file. Required for JournalSQLite.
	Path string
}

// Enabled reports whether a journal should be opened.
func (j JournalSettings) Enabled() bool {
	return j.Driver != JournalNone
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	return Settings{
		LogLevel: slog.LevelInfo,
		Journal:  JournalSettings{Driver: JournalNone},
	}
}

var (
	settingsKeys = []string{"log_level", "metrics", "tracing", "journal"}
	journalKeys  = []string{"driver", "path"}
)

// SettingsFrom extracts Settings from cfg, applying defaults for missing keys.
// Unknown keys and values of the wrong type fail with ErrInvalidSettings.
// A key present with a null value counts as missing.
func SettingsFrom(cfg Config) (Settings, error) {
	s := DefaultSettings()

	if err := checkKeys(cfg, "", settingsKeys); err != nil {
		return Settings{}, err
	}

	level, err := stringSetting(cfg, "log_level", "log_level")
	if err != nil {
		return Settings{}, err
	}
	if level != "" {
		if err := s.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return Settings{}, fmt.Errorf("%w: log_level %q", ErrInvalidSettings, level)
		}
	}

	if s.Metrics, err = boolSetting(cfg, "metrics"); err != nil {
		return Settings{}, err
	}
	if s.Tracing, err = boolSetting(cfg, "tracing"); err != nil {
		return Settings{}, err
	}

	if v := cfg.Raw()["journal"]; v != nil && !isSection(v) {
		return Settings{}, fmt.Errorf("%w: journal must be a mapping, got %T", ErrInvalidSettings, v)
	}
	journal := cfg.Sub("journal")
	if err := checkKeys(journal, "journal.", journalKeys); err != nil {
		return Settings{}, err
	}

	driver, err := stringSetting(journal, "driver", "journal.driver")
	if err != nil {
		return Settings{}, err
	}
	if s.Journal.Path, err = stringSetting(journal, "path", "journal.path"); err != nil {
		return Settings{}, err
	}
	s.Journal.Driver = strings.ToLower(driver)
	if s.Journal.Driver == "" {
		s.Journal.Driver = JournalNone
	}

	switch s.Journal.Driver {
	case JournalNone, JournalMemory:
	case JournalSQLite:
		if s.Journal.Path == "" {
			return Settings{}, fmt.Errorf("%w: journal.path is required for the sqlite driver", ErrInvalidSettings)
		}
	default:
		return Settings{}, fmt.Errorf("%w: unknown journal driver %q", ErrInvalidSettings, s.Journal.Driver)
	}

	return s, nil
}

// checkKeys rejects keys of c outside allowed, reporting them with prefix.
func checkKeys(c Config, prefix string, allowed []string) error {
	var unknown []string
	for key := range c.Raw() {
		if !slices.Contains(allowed, key) {
			unknown = append(unknown, prefix+key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%w: unknown keys %s", ErrInvalidSettings, strings.Join(unknown, ", "))
}

func stringSetting(c Config, key, name string) (string, error) {
	if !c.Has(key) || c.Raw()[key] == nil {
		return "", nil
	}
	v, ok := c.Raw()[key].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidSettings, name, c.Raw()[key])
	}
	return v, nil
}

func boolSetting(c Config, key string) (bool, error) {
	if !c.Has(key) || c.Raw()[key] == nil {
		return false, nil
	}
	v, ok := c.Raw()[key].(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a boolean, got %T", ErrInvalidSettings, key, c.Raw()[key])
	}
	return v, nil
}

func isSection(v any) bool {
	switch v.(type) {
	case map[string]any, map[any]any:
		return true
	}
	return false
}

// LoadSettings reads a settings file and parses it with SettingsFrom.
func LoadSettings(path string) (Settings, error) {
	cfg, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	return SettingsFrom(cfg)
}
