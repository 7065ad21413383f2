// Package config loads the statements.yaml project configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// FileName is the config file written by `statements init`.
const FileName = "statements.yaml"

// EnvFileName is the optional environment file next to the config.
const EnvFileName = ".env"

// Environment variables that override the file.
const (
	EnvLogLevel  = "STATEMENTS_LOG_LEVEL"
	EnvAddr      = "STATEMENTS_ADDR"
	EnvRules     = "STATEMENTS_RULES"
	EnvOutputDir = "STATEMENTS_OUTPUT_DIR"
)

// Config represents the top-level statements.yaml configuration.
type Config struct {
	Import ImportConfig `yaml:"import"`
	Rules  RulesConfig  `yaml:"rules"`
	Output OutputConfig `yaml:"output"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// ImportConfig controls where statement files are picked up.
type ImportConfig struct {
	Dir              string `yaml:"dir"`
	ArchiveProcessed bool   `yaml:"archive_processed"`
}

// RulesConfig points at the categorization rule table.
type RulesConfig struct {
	Path            string `yaml:"path"`
	IncludeDefaults bool   `yaml:"include_defaults"`
}

// OutputConfig controls ledger exports.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // json, csv or both
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// Load reads a statements.yaml file from disk. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Import: ImportConfig{
			Dir: "import",
		},
		Rules: RulesConfig{
			Path:            filepath.Join("rules", "rules.yaml"),
			IncludeDefaults: true,
		},
		Output: OutputConfig{
			Dir:    "exports",
			Format: "both",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 32,
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// ApplyEnv overlays STATEMENTS_* variables onto cfg. Variables come from the
// process environment after loading <root>/.env when it exists. Values already
// set in the environment win over the .env file.
func (c *Config) ApplyEnv(root string) error {
	if err := godotenv.Load(filepath.Join(root, EnvFileName)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading env file: %w", err)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvRules); v != "" {
		c.Rules.Path = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Output.Dir = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "", "json", "csv", "both":
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("server.max_upload_mb: must not be negative, got %d", c.Server.MaxUploadMB)
	}
	return nil
}

// Resolve returns p relative to the project root unless it is already absolute.
func Resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
