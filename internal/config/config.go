package config

import (
	"fmt"
	"os"
	"path/filepath"

	env "github.com/caarlos0/env/v11"
)

type CommonConfig struct {
	LogLevel string `env:"COMMON_LOG_LEVEL" envDefault:"info"`
}

type APIConfig struct {
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
}

type SessionConfig struct {
	// File path for the persisted session. Empty means the default
	// location under the user config dir.
	Path string `env:"SESSION_FILE"`
	// When set, the session lives in redis instead of a file.
	RedisAddr string `env:"SESSION_REDIS_ADDR"`
	// Key namespace, useful when several clients share one redis.
	RedisNamespace string `env:"SESSION_REDIS_NAMESPACE" envDefault:"default"`
}

type MetricsConfig struct {
	// Optional listen address for /metrics; empty disables the listener.
	Addr string `env:"METRICS_ADDR"`
}

type Config struct {
	Common  CommonConfig
	API     APIConfig
	Session SessionConfig
	Metrics MetricsConfig
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.API.BaseURL == "" {
		return Config{}, fmt.Errorf("api base url is empty: set API_BASE_URL")
	}
	if cfg.Session.Path == "" && cfg.Session.RedisAddr == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve session file location: %w", err)
		}
		cfg.Session.Path = filepath.Join(dir, "storefront", "session.json")
	}
	return cfg, nil
}
