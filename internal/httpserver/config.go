package httpserver

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Addr           string        `env:"BBA_SERVER_ADDR"     envDefault:":8080"`
	DBPath         string        `env:"BBA_SERVER_DB"       envDefault:"bba-auctions.db"`
	EnginePath     string        `env:"BBA_ENGINE"`
	NSConventions  string        `env:"BBA_NS_CONVENTIONS"`
	EWConventions  string        `env:"BBA_EW_CONVENTIONS"`
	MaxCalls       int           `env:"BBA_MAX_CALLS"       envDefault:"100"`
	RequestTimeout time.Duration `env:"BBA_REQUEST_TIMEOUT" envDefault:"30s"`
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
