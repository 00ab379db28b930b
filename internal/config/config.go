package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "rockymcp.yaml"

// Config represents the rockymcp.yaml configuration.
// Environment variables override values from the file.
type Config struct {
	Extractors []string     `yaml:"extractors"`
	Language   string       `yaml:"language"`
	Log        LogConfig    `yaml:"log"`
	Ledger     LedgerConfig `yaml:"ledger"`
	Depot      DepotConfig  `yaml:"depot"`
	Batch      BatchConfig  `yaml:"batch"`
	Output     OutputConfig `yaml:"output"`
}

// LogConfig selects the zap logger mode (dev, prod, quiet).
type LogConfig struct {
	Mode string `yaml:"mode" env:"ROCKY_LOG_MODE"`
}

// LedgerConfig controls where processed Facts records are appended.
type LedgerConfig struct {
	Path    string `yaml:"path" env:"ROCKY_LEDGER_PATH"`
	Enabled bool   `yaml:"enabled" env:"ROCKY_LEDGER_ENABLED"`
}

// DepotConfig points at the section schema and checklist JSON files.
// Either directory may be empty; the embedded defaults always apply last.
type DepotConfig struct {
	ConfigDir  string `yaml:"config_dir" env:"DEPOT_CONFIG_DIR"`
	InstallDir string `yaml:"install_dir" env:"DEPOT_INSTALL_DIR"`
}

// BatchConfig controls parallel transcript processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" env:"ROCKY_BATCH_CONCURRENCY"`
}

// OutputConfig controls rendered reports.
type OutputConfig struct {
	MaxContextTokens int `yaml:"max_context_tokens" env:"ROCKY_MAX_CONTEXT_TOKENS"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Extractors: []string{
			"customer",
			"property",
			"existingSystem",
			"measurements",
			"materials",
			"hazards",
			"requiredActions",
		},
		Language: "en",
		Log: LogConfig{
			Mode: "dev",
		},
		Ledger: LedgerConfig{
			Path:    ".rockymcp/facts.jsonl",
			Enabled: true,
		},
		Batch: BatchConfig{
			Concurrency: 4,
		},
		Output: OutputConfig{
			MaxContextTokens: 8000,
		},
	}
}

// Load reads a configuration file from the given path and applies
// environment overrides. A missing file is not an error: defaults plus
// environment are used. Missing fields are filled with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment overrides: %w", err)
	}

	// Ensure required defaults
	def := Default()
	if cfg.Log.Mode == "" {
		cfg.Log.Mode = def.Log.Mode
	}
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = def.Ledger.Path
	}
	if cfg.Batch.Concurrency <= 0 {
		cfg.Batch.Concurrency = def.Batch.Concurrency
	}
	if cfg.Output.MaxContextTokens <= 0 {
		cfg.Output.MaxContextTokens = def.Output.MaxContextTokens
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}

	return cfg, nil
}

// IsExtractorEnabled returns true if the named extractor is enabled.
func (c *Config) IsExtractorEnabled(name string) bool {
	return contains(c.Extractors, name)
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
