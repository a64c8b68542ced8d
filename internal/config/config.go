package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds the service-level settings, bound from the environment.
type Config struct {
	Environment string        `envconfig:"ENV" default:"production"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	MaxRetries  int           `envconfig:"MAX_RETRIES" default:"3"`

	StormglassBaseURL string  `envconfig:"STORMGLASS_BASE_URL" default:"https://api.stormglass.io/v2"`
	StormglassAPIKey  string  `envconfig:"STORMGLASS_API_KEY"`
	RemoteRPS         float64 `envconfig:"REMOTE_RPS" default:"5"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	MaxInFlight int `envconfig:"MAX_IN_FLIGHT" default:"4"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// HarmonicOnly reports whether no remote credential is configured. This is
// the documented trigger for offline harmonic-only mode, not an error.
func (c *Config) HarmonicOnly() bool {
	return c.StormglassAPIKey == ""
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}
