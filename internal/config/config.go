package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	APIBaseURL      string        `envconfig:"API_BASE_URL" default:"http://localhost:8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	PageSize        int           `envconfig:"PAGE_SIZE" default:"10"`
	StubAddr        string        `envconfig:"STUB_ADDR" default:":8080"`
	SeedFile        string        `envconfig:"SEED_FILE" default:""`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFile         string        `envconfig:"LOG_FILE" default:""`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load builds Config with defaults, overridden by environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("BACKOFFICE", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
