package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override read by ApplyEnv.
const EnvPrefix = "TYPEDEVENT_"

// SectionKey is the top-level key under which settings may be nested when
// they share a file with other application configuration.
const SectionKey = "typedevent"

// ErrUnknownSetting is returned by LoadSettings for keys it does not recognize.
var ErrUnknownSetting = errors.New("unknown setting")

// ErrInvalidSetting is returned by LoadSettings for a setting whose value
// has the wrong type.
var ErrInvalidSetting = errors.New("invalid setting")

// settingKeys lists the document keys SettingsFromConfig reads.
var settingKeys = []string{"name", "kinds", "max_listeners", "metrics", "tracing", "log_level"}

// DefaultMaxListeners is the per-kind listener count above which a
// possible leak is logged. Zero disables the check.
const DefaultMaxListeners = 10

// Settings configures an emitter.
type Settings struct {
	// Name labels the emitter in logs.
	Name string `env:"NAME"`

	// Kinds lists the event kinds the emitter must declare.
	// Empty means any manifest is accepted.
	Kinds []string `env:"KINDS" envSeparator:","`

	// MaxListeners is the leak warning threshold per kind. Zero disables it.
	MaxListeners int `env:"MAX_LISTENERS"`

	// Metrics enables OpenTelemetry metrics.
	Metrics bool `env:"METRICS"`

	// Tracing enables OpenTelemetry spans around emit.
	Tracing bool `env:"TRACING"`

	// LogLevel is a slog level name: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL"`
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	return Settings{
		Name:         "typedevent",
		MaxListeners: DefaultMaxListeners,
		LogLevel:     "info",
	}
}

// SettingsFromConfig extracts Settings from a loaded Config.
// Missing keys keep their DefaultSettings values.
func SettingsFromConfig(cfg Config) Settings {
	def := DefaultSettings()
	return Settings{
		Name:         cfg.String("name", def.Name),
		Kinds:        cfg.StringSlice("kinds", def.Kinds),
		MaxListeners: cfg.Int("max_listeners", def.MaxListeners),
		Metrics:      cfg.Bool("metrics", def.Metrics),
		Tracing:      cfg.Bool("tracing", def.Tracing),
		LogLevel:     cfg.String("log_level", def.LogLevel),
	}
}

// ApplyEnv overrides fields from TYPEDEVENT_* environment variables.
// Variables that are unset leave the field unchanged.
func ApplyEnv(s *Settings) error {
	if err := env.ParseWithOptions(s, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSettings reads settings from a YAML or JSON file, applies environment
// overrides, and validates the result.
//
// When the document has a top-level SectionKey mapping, settings are read
// from it and the rest of the file is ignored. Otherwise the whole document
// holds settings. In both cases a key that is not a setting is an error
// matching ErrUnknownSetting, and a value of the wrong type is an error
// matching ErrInvalidSetting. A null value keeps the default.
func LoadSettings(path string) (Settings, error) {
	cfg, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	if cfg.Has(SectionKey) {
		cfg = cfg.Section(SectionKey)
	}
	if unknown := cfg.Unknown(settingKeys...); len(unknown) > 0 {
		return Settings{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownSetting, strings.Join(unknown, ", "))
	}
	if invalid := invalidSettings(cfg); len(invalid) > 0 {
		return Settings{}, fmt.Errorf("%s: %w: %s", path, ErrInvalidSetting, strings.Join(invalid, ", "))
	}

	s := SettingsFromConfig(cfg)
	if err := ApplyEnv(&s); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// invalidSettings returns the setting keys whose values SettingsFromConfig
// would otherwise replace with a default, sorted.
func invalidSettings(cfg Config) []string {
	var bad []string
	for _, key := range cfg.Keys() {
		if !validSetting(cfg.data[key], key) {
			bad = append(bad, key)
		}
	}
	return bad
}

func validSetting(v any, key string) bool {
	if v == nil {
		return true
	}
	switch key {
	case "name", "log_level":
		_, ok := v.(string)
		return ok
	case "metrics", "tracing":
		_, ok := v.(bool)
		return ok
	case "max_listeners":
		switch n := v.(type) {
		case int, int64:
			return true
		case float64:
			return n == float64(int(n))
		}
		return false
	case "kinds":
		switch list := v.(type) {
		case string, []string:
			return true
		case []any:
			for _, item := range list {
				if _, ok := item.(string); !ok {
					return false
				}
			}
			return true
		}
		return false
	}
	return true
}

// Validate checks the settings for obvious mistakes.
func (s Settings) Validate() error {
	if s.MaxListeners < 0 {
		return errors.New("max_listeners must not be negative")
	}

	seen := make(map[string]bool, len(s.Kinds))
	for _, k := range s.Kinds {
		if k == "" {
			return errors.New("kinds: empty kind name")
		}
		if seen[k] {
			return fmt.Errorf("kinds: duplicate kind %q", k)
		}
		seen[k] = true
	}

	if _, err := s.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty LogLevel is slog.LevelInfo.
func (s Settings) Level() (slog.Level, error) {
	var level slog.Level
	if s.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
