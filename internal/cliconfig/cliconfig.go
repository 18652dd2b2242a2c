package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/envsafe/envsafe"
)

// Output formats accepted by the print command.
const (
	FormatEnv  = "env"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Config aggregates CLI configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	EnvFile          string
	Defaults         string
	Example          string
	Safe             bool
	AllowEmptyValues bool
	Format           string
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	EnvFile          string `yaml:"env_file"`
	Defaults         string `yaml:"defaults"`
	Example          string `yaml:"example"`
	Safe             *bool  `yaml:"safe"`
	AllowEmptyValues *bool  `yaml:"allow_empty_values"`
	Format           string `yaml:"format"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile       string
	EnvFile          *string
	Defaults         *string
	Example          *string
	Safe             *bool
	AllowEmptyValues *bool
	Format           *string
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables first so the YAML file can override them
	applyEnvConfig(&cfg)

	// Load from YAML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Options converts the resolved CLI settings into loader options. The safe
// flag may be forced on by commands that imply validation.
func (c Config) Options(safe, export bool) envsafe.Options {
	return envsafe.Options{
		Path:             c.EnvFile,
		Defaults:         c.Defaults,
		Example:          c.Example,
		Safe:             c.Safe || safe,
		Export:           export,
		AllowEmptyValues: c.AllowEmptyValues,
	}
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		EnvFile:  envsafe.DefaultPath,
		Defaults: envsafe.DefaultDefaults,
		Example:  envsafe.DefaultExample,
		Format:   FormatEnv,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.EnvFile != "" {
		cfg.EnvFile = yamlCfg.EnvFile
	}
	if yamlCfg.Defaults != "" {
		cfg.Defaults = yamlCfg.Defaults
	}
	if yamlCfg.Example != "" {
		cfg.Example = yamlCfg.Example
	}
	if yamlCfg.Safe != nil {
		cfg.Safe = *yamlCfg.Safe
	}
	if yamlCfg.AllowEmptyValues != nil {
		cfg.AllowEmptyValues = *yamlCfg.AllowEmptyValues
	}
	if yamlCfg.Format != "" {
		cfg.Format = yamlCfg.Format
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if file := strings.TrimSpace(os.Getenv("ENVSAFE_FILE")); file != "" {
		cfg.EnvFile = file
	}
	if defaults := strings.TrimSpace(os.Getenv("ENVSAFE_DEFAULTS")); defaults != "" {
		cfg.Defaults = defaults
	}
	if example := strings.TrimSpace(os.Getenv("ENVSAFE_EXAMPLE")); example != "" {
		cfg.Example = example
	}
	if safe := strings.TrimSpace(os.Getenv("ENVSAFE_SAFE")); safe != "" {
		if value, err := strconv.ParseBool(safe); err == nil {
			cfg.Safe = value
		}
	}
	if allow := strings.TrimSpace(os.Getenv("ENVSAFE_ALLOW_EMPTY")); allow != "" {
		if value, err := strconv.ParseBool(allow); err == nil {
			cfg.AllowEmptyValues = value
		}
	}
	if format := strings.TrimSpace(os.Getenv("ENVSAFE_FORMAT")); format != "" {
		cfg.Format = format
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.EnvFile != nil && *overrides.EnvFile != "" {
		cfg.EnvFile = *overrides.EnvFile
	}
	if overrides.Defaults != nil && *overrides.Defaults != "" {
		cfg.Defaults = *overrides.Defaults
	}
	if overrides.Example != nil && *overrides.Example != "" {
		cfg.Example = *overrides.Example
	}
	if overrides.Safe != nil {
		cfg.Safe = *overrides.Safe
	}
	if overrides.AllowEmptyValues != nil {
		cfg.AllowEmptyValues = *overrides.AllowEmptyValues
	}
	if overrides.Format != nil && *overrides.Format != "" {
		cfg.Format = *overrides.Format
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	switch cfg.Format {
	case FormatEnv, FormatJSON, FormatYAML, FormatTOML:
	default:
		return fmt.Errorf("unsupported format %q (expected env, json, yaml, or toml)", cfg.Format)
	}
	if cfg.EnvFile == "" {
		return fmt.Errorf("env file must not be empty")
	}
	return nil
}
