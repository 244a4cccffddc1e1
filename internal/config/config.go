// Package config loads tugas settings. Environment variables (TUGAS_*)
// override config.toml, which overrides the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/faizmokh/tugas/internal/tracker"
)

// EnvPrefix namespaces environment overrides, e.g. TUGAS_UNDO_CAPACITY.
const EnvPrefix = "TUGAS"

// MaxUndoCapacity caps the configurable history size.
const MaxUndoCapacity = 100

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the resolved application configuration.
type Config struct {
	Classes      []string `mapstructure:"classes"`
	UndoCapacity int      `mapstructure:"undo_capacity"`
	SeedSamples  bool     `mapstructure:"seed_samples"`
	DBFile       string   `mapstructure:"db_file"`
	Log          Log      `mapstructure:"log"`
}

// Log configures the zap logger.
type Log struct {
	Level string `mapstructure:"level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Classes:      append([]string(nil), tracker.DefaultClasses...),
		UndoCapacity: tracker.DefaultUndoCapacity,
		DBFile:       "tugas.db",
		Log:          Log{Level: "info"},
	}
}

// Load reads path if it exists, then applies environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("classes", def.Classes)
	v.SetDefault("undo_capacity", def.UndoCapacity)
	v.SetDefault("seed_samples", def.SeedSamples)
	v.SetDefault("db_file", def.DBFile)
	v.SetDefault("log.level", def.Log.Level)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	cfg := Config{
		Classes:      splitClasses(v.Get("classes")),
		UndoCapacity: v.GetInt("undo_capacity"),
		SeedSamples:  v.GetBool("seed_samples"),
		DBFile:       strings.TrimSpace(v.GetString("db_file")),
		Log:          Log{Level: strings.TrimSpace(v.GetString("log.level"))},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and required values.
func (c Config) Validate() error {
	if len(c.Classes) == 0 {
		return fmt.Errorf("%w: at least one class is required", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Classes))
	for _, class := range c.Classes {
		if _, dup := seen[class]; dup {
			return fmt.Errorf("%w: duplicate class %q", ErrInvalidConfig, class)
		}
		seen[class] = struct{}{}
	}
	if c.UndoCapacity < 1 || c.UndoCapacity > MaxUndoCapacity {
		return fmt.Errorf("%w: undo_capacity must be between 1 and %d, got %d", ErrInvalidConfig, MaxUndoCapacity, c.UndoCapacity)
	}
	if c.DBFile == "" {
		return fmt.Errorf("%w: db_file is required", ErrInvalidConfig)
	}
	return nil
}

// splitClasses accepts a TOML array or a comma separated string, which is
// how TUGAS_CLASSES arrives from the environment.
func splitClasses(raw any) []string {
	var items []string
	switch v := raw.(type) {
	case string:
		items = []string{v}
	case []string:
		items = v
	case []any:
		for _, item := range v {
			items = append(items, fmt.Sprint(item))
		}
	}

	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
