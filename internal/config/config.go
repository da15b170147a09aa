package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// DefaultDatabasePath is the database filename the upstream stream recorder
// produces when run without options.
const DefaultDatabasePath = "lightning.sqlite3"

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database" envconfig:"DATABASE"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Smoothing SmoothingConfig `yaml:"smoothing" envconfig:"SMOOTHING"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
}

// DatabaseConfig locates the SQLite database produced by the stream recorder
type DatabaseConfig struct {
	Path string `yaml:"path" envconfig:"PATH" default:"lightning.sqlite3" validate:"required"`
}

// OutputConfig controls where and in which tabular format artifacts are written
type OutputConfig struct {
	Dir    string `yaml:"dir" envconfig:"DIR" default:"." validate:"required"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"csv" validate:"oneof=csv parquet xlsx"`
	Chart  bool   `yaml:"chart" envconfig:"CHART" default:"true"`
}

// SmoothingConfig holds the decay parameters for the smoothing engine.
// Duplicate values are legal and computed independently.
type SmoothingConfig struct {
	Alphas []float64 `yaml:"alphas" envconfig:"ALPHAS" default:"0.01,0.05,0.1" validate:"required,min=1,dive,gt=0,lte=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"warn" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/flowetl.log"`
}

// Load loads configuration from environment variables and an optional config
// file. File values take precedence over environment values, mirroring how a
// checked-in config overrides ambient defaults.
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("FLOWETL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(cfg, *fileConfig)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration against the struct validation rules plus
// the cross-field constraints the tags cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getConfigFilePath returns the config file path, honoring FLOWETL_CONFIG
func getConfigFilePath() string {
	if path := os.Getenv("FLOWETL_CONFIG"); path != "" {
		return path
	}
	return "flowetl.yaml"
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &cfg, nil
}

// mergeConfigs overlays non-zero file values onto the env-derived base
func mergeConfigs(base, file Config) Config {
	merged := base

	if file.Database.Path != "" {
		merged.Database.Path = file.Database.Path
	}
	if file.Output.Dir != "" {
		merged.Output.Dir = file.Output.Dir
	}
	if file.Output.Format != "" {
		merged.Output.Format = file.Output.Format
	}
	if len(file.Smoothing.Alphas) > 0 {
		merged.Smoothing.Alphas = file.Smoothing.Alphas
	}
	if file.Logging.Level != "" {
		merged.Logging.Level = file.Logging.Level
	}
	if file.Logging.Format != "" {
		merged.Logging.Format = file.Logging.Format
	}
	if file.Logging.Output != "" {
		merged.Logging.Output = file.Logging.Output
	}
	if file.Logging.FilePath != "" {
		merged.Logging.FilePath = file.Logging.FilePath
	}

	return merged
}
