// ABOUTME: Configuration loading and parsing for iconbox
// ABOUTME: Supports YAML or TOML files with environment variable expansion and size parsing

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// AppName names the per-user config and data directories.
const AppName = "iconbox"

// Defaults applied to fields left empty in the config file.
const (
	DefaultDriver         = "sqlite"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultImportWorkers  = 4
	DefaultMaxFileSizeRaw = "5MB"
)

// Config represents the complete iconbox configuration
type Config struct {
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Import   ImportConfig   `yaml:"import" toml:"import"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path   string `yaml:"path" toml:"path"`
	Driver string `yaml:"driver" toml:"driver"` // "sqlite" (pure Go) or "sqlite3" (cgo)
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	File   string `yaml:"file" toml:"file"` // optional rotated log file
}

// ImportConfig holds folder import configuration
type ImportConfig struct {
	Workers     int   `yaml:"workers" toml:"workers"`
	MaxFileSize int64 `yaml:"-" toml:"-"`

	// Raw string value, e.g. "5MB", parsed into MaxFileSize
	MaxFileSizeRaw string `yaml:"max_file_size" toml:"max_file_size"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	// The default raw size always parses.
	_ = parseSizes(cfg)
	return cfg
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyDefaults()

	if err := parseSizes(&cfg); err != nil {
		return nil, fmt.Errorf("parsing sizes: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func (c *Config) applyDefaults() {
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath()
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDriver
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Import.Workers == 0 {
		c.Import.Workers = DefaultImportWorkers
	}
	if c.Import.MaxFileSizeRaw == "" {
		c.Import.MaxFileSizeRaw = DefaultMaxFileSizeRaw
	}
}

// parseSizes converts the raw size strings into byte counts
func parseSizes(cfg *Config) error {
	n, err := humanize.ParseBytes(cfg.Import.MaxFileSizeRaw)
	if err != nil {
		return fmt.Errorf("parsing max_file_size %q: %w", cfg.Import.MaxFileSizeRaw, err)
	}
	if n > math.MaxInt64 {
		return fmt.Errorf("parsing max_file_size %q: too large", cfg.Import.MaxFileSizeRaw)
	}
	cfg.Import.MaxFileSize = int64(n)
	return nil
}

// Validate checks that all configuration fields are valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch c.Database.Driver {
	case "sqlite", "sqlite3":
	default:
		return fmt.Errorf("database.driver must be \"sqlite\" or \"sqlite3\", got %q", c.Database.Driver)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}

	if c.Import.Workers < 1 {
		return fmt.Errorf("import.workers must be at least 1")
	}

	return nil
}

// ConfigPath returns the path to the iconbox config file.
// Priority: ICONBOX_CONFIG env var > XDG_CONFIG_HOME/iconbox/config.yaml > ~/.config/iconbox/config.yaml
func ConfigPath() string {
	if envPath := os.Getenv("ICONBOX_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, AppName, "config.yaml")
}

// DefaultDataDir returns the per-user iconbox data directory.
// Priority: XDG_DATA_HOME/iconbox > ~/.local/share/iconbox
func DefaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, AppName)
}

// DefaultDatabasePath returns iconbox.db inside DefaultDataDir.
func DefaultDatabasePath() string {
	return filepath.Join(DefaultDataDir(), "iconbox.db")
}

// Save writes cfg as YAML to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	header := "# iconbox configuration\n# Generated by iconbox init\n\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
