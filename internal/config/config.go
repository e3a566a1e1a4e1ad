// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultConfigFile is looked up in the working directory when no explicit
// config file is given.
const DefaultConfigFile = "tasklist.toml"

type Config struct {
	Environment string           `toml:"environment"`
	Database    DatabaseConfig   `toml:"database"`
	Log         LogConfig        `toml:"log"`
	Validation  ValidationConfig `toml:"validation"`
}

type DatabaseConfig struct {
	Path  string `toml:"path"`
	Debug bool   `toml:"debug"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ValidationConfig struct {
	DateLayout string `toml:"date_layout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Environment: "production",
		Database: DatabaseConfig{
			Path: filepath.Join("db", "tasklist.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Validation: ValidationConfig{
			DateLayout: time.DateOnly,
		},
	}
}

// Load builds the configuration from defaults, then the TOML file at path
// (or DefaultConfigFile when path is empty and the file exists), then the
// environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			file = DefaultConfigFile
		}
	}
	if file != "" {
		if err := loadFile(cfg, file); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", file, err)
		}
	}

	cfg.Environment = getEnv("TASKLIST_ENV", cfg.Environment)
	cfg.Database.Path = getEnv("TASKLIST_DB_PATH", cfg.Database.Path)
	cfg.Database.Debug = getEnvAsBool("TASKLIST_DB_DEBUG", cfg.Database.Debug)
	cfg.Log.Level = getEnv("TASKLIST_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("TASKLIST_LOG_FORMAT", cfg.Log.Format)
	cfg.Validation.DateLayout = getEnv("TASKLIST_DATE_LAYOUT", cfg.Validation.DateLayout)

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// ValidateConfig checks the values the commands cannot work without.
func (c *Config) ValidateConfig() error {
	var errs []error

	switch {
	case strings.TrimSpace(c.Database.Path) == "":
		errs = append(errs, errors.New("database path is required"))
	case c.Database.Path == ":memory:" || strings.Contains(c.Database.Path, "mode=memory"):
		// Connections are not reused, so an in-memory database would vanish
		// between calls.
		errs = append(errs, errors.New("database path must point to a file"))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	if c.Validation.DateLayout == "" {
		errs = append(errs, errors.New("date layout is required"))
	}

	return errors.Join(errs...)
}

// IsDevelopment reports whether the process runs in a development environment.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Environment)
	return env == "development" || env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
