package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradedash/journal"
)

// Config represents the complete dashboard configuration
type Config struct {
	Data   DataConfig   `json:"data" yaml:"data"`
	Server ServerConfig `json:"server" yaml:"server"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// DataConfig says where closed trades are read from
type DataConfig struct {
	Source string `json:"source" yaml:"source" validate:"required,oneof=csv sqlite"` // "csv" or "sqlite"
	Path   string `json:"path,omitempty" yaml:"path,omitempty" validate:"required_if=Source csv"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty" validate:"required_if=Source sqlite"`

	// ReloadSchedule is an optional cron spec (e.g. "@every 5m") on which
	// the served snapshot is reloaded.
	ReloadSchedule string `json:"reload_schedule,omitempty" yaml:"reload_schedule,omitempty"`
}

// ServerConfig contains HTTP serving parameters
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" validate:"required"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"required,oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"required,oneof=json console"`
}

// Environment variables that override file settings.
const (
	EnvDataSource     = "TRADEDASH_DATA_SOURCE"
	EnvDataPath       = "TRADEDASH_DATA_PATH"
	EnvDBPath         = "TRADEDASH_DB_PATH"
	EnvReloadSchedule = "TRADEDASH_RELOAD_SCHEDULE"
	EnvAddr           = "TRADEDASH_ADDR"
	EnvLogLevel       = "TRADEDASH_LOG_LEVEL"
	EnvLogFormat      = "TRADEDASH_LOG_FORMAT"
)

var validate = validator.New()

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Load returns the configuration at path, or the defaults with environment
// overrides applied when path is empty.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromFile(path)
	}
	cfg := Default()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv reads KEY=value pairs from path into the process environment.
// A missing file is not an error. Variables already set are kept.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overrides settings from TRADEDASH_* environment variables.
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Data.Source, EnvDataSource)
	set(&c.Data.Path, EnvDataPath)
	set(&c.Data.DBPath, EnvDBPath)
	set(&c.Data.ReloadSchedule, EnvReloadSchedule)
	set(&c.Server.Addr, EnvAddr)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Log.Format, EnvLogFormat)
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Data.ReloadSchedule != "" {
		if _, err := cron.ParseStandard(c.Data.ReloadSchedule); err != nil {
			return fmt.Errorf("data.reload_schedule: %w", err)
		}
	}
	return nil
}

// TradeSource returns the journal source described by the data settings.
func (c *Config) TradeSource() journal.Source {
	if c.Data.Source == "sqlite" {
		return journal.SQLiteSource{Path: c.Data.DBPath}
	}
	return journal.CSVSource{Path: c.Data.Path}
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Source: "csv",
			Path:   journal.DefaultPath,
			DBPath: "./tradedash.sqlite",
		},
		Server: ServerConfig{
			Addr: ":8501",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
