// Package config handles loading and parsing application configuration.
// It supports three sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//  3. Nothing at all: every field has a default and can be set through
//     its own environment variable.
//
// A config file is optional because the program is usually started by
// hand from the directory holding Enrollments.json.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers accepted in Config.Storage.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"prod"`

	// DataFile is the path of the registrations file.
	DataFile string `yaml:"data_file" env:"DATA_FILE" env-default:"Enrollments.json" validate:"required"`

	// Storage selects the backend that reads and writes DataFile.
	Storage string `yaml:"storage" env:"STORAGE_DRIVER" env-default:"json" validate:"oneof=json sqlite"`

	// LogPath is where structured logs go. Empty means stderr, which
	// keeps stdout clean for the menu.
	LogPath string `yaml:"log_path" env:"LOG_PATH"`
}

// Load reads the config from configPath, or from the environment alone
// when configPath is empty, and validates the result.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		// Verify the file exists before trying to read it, so the user
		// gets a clear message rather than a cryptic open error.
		if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}
		// ReadConfig also applies env:"..." overrides and env-default.
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the rules in the validate:"..." tags. Call it again
// after applying command-line overrides.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// MustLoad is Load for program startup. CONFIG_PATH wins over flagPath.
//
// Functions prefixed with "Must" are allowed to exit on failure; if this
// returns, the config is valid.
func MustLoad(flagPath string) *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = flagPath
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%s", err.Error())
	}
	return cfg
}
