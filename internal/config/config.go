package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	Parser ParserConfig `mapstructure:"parser"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
}

// ParserConfig holds tree parsing configuration.
type ParserConfig struct {
	DefaultLanguage string `mapstructure:"default_language"` // Grammar used when detection fails
	MaxFileSize     int64  `mapstructure:"max_file_size"`    // Maximum source file size in bytes
	Concurrency     int    `mapstructure:"concurrency"`      // Parallel file workers
}

// OutputConfig holds report output configuration.
type OutputConfig struct {
	Format string `mapstructure:"format"` // json, yaml
	Pretty bool   `mapstructure:"pretty"` // Indent JSON output
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New creates a new Config instance from Viper.
func New(v *viper.Viper) *Config {
	var config Config

	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("unable to decode config: %w", err))
	}

	if err := config.Validate(); err != nil {
		panic(fmt.Errorf("invalid configuration: %w", err))
	}

	return &config
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Parser.Concurrency < 1 {
		return errors.New("parser.concurrency must be at least 1")
	}

	if c.Parser.MaxFileSize < 1 {
		return errors.New("parser.max_file_size must be positive")
	}

	switch c.Parser.DefaultLanguage {
	case "typescript", "tsx", "javascript":
	default:
		return fmt.Errorf("parser.default_language must be a supported grammar, got %q", c.Parser.DefaultLanguage)
	}

	if c.Output.Format != "json" && c.Output.Format != "yaml" {
		return fmt.Errorf("output.format must be json or yaml, got %q", c.Output.Format)
	}

	return nil
}
