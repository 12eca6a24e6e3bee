// Package config loads the service configuration in three layers: built-in
// defaults, environment variables, and an optional YAML file on top. Every
// field carries a sensible default so the binary runs with no configuration
// at all.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix for all environment variables, e.g. SOA_SERVER_PORT.
const EnvPrefix = "SOA"

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Parser   ParserConfig   `yaml:"parser" envconfig:"PARSER"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains request-level protections.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
}

// ParserConfig contains statement parser tunables.
type ParserConfig struct {
	// AmountFallbackMin is the magnitude a numeric cell must exceed before
	// it can stand in for a missing amount column.
	AmountFallbackMin float64 `yaml:"amount_fallback_min" envconfig:"AMOUNT_FALLBACK_MIN" default:"100"`
	// MetadataRows bounds the leading-row scan for document metadata.
	MetadataRows int `yaml:"metadata_rows" envconfig:"METADATA_ROWS" default:"15"`
	// ExtraSectionKeywords extends the built-in section label vocabulary.
	ExtraSectionKeywords []string `yaml:"extra_section_keywords" envconfig:"EXTRA_SECTION_KEYWORDS"`
	// MaxUploadBytes caps the accepted workbook upload size.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
	// ParseTimeout bounds a single workbook parse.
	ParseTimeout time.Duration `yaml:"parse_timeout" envconfig:"PARSE_TIMEOUT" default:"60s"`
}

// Load builds the configuration: defaults and environment variables first,
// then the YAML file at path layered on top (ignored when empty or missing).
// Keys present in the file win over the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Parser.AmountFallbackMin < 0 {
		return fmt.Errorf("amount fallback minimum must not be negative")
	}
	if c.Parser.MetadataRows <= 0 {
		return fmt.Errorf("metadata row scan depth must be positive")
	}
	if c.Parser.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("unknown logging format: %q", c.Logging.Format)
	}
	return nil
}
