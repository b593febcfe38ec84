package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

type Config struct {
	MongoDBURL               string `env:"LIFEGUARD_MONGODB_URL,default=mongodb://localhost:27017"`
	MongoDBDatabase          string `env:"LIFEGUARD_MONGODB_DATABASE,default=lifeguard"`
	MongoDBConnectTimeoutSec int    `env:"LIFEGUARD_MONGODB_CONNECT_TIMEOUT_SEC,default=10"`
	APIPort                  int    `env:"API_PORT,default=8080"`
	LogLevel                 string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.MongoDBConnectTimeoutSec <= 0 {
		return nil, fmt.Errorf("failed to load config: LIFEGUARD_MONGODB_CONNECT_TIMEOUT_SEC must be positive")
	}
	return &cfg, nil
}

func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.MongoDBConnectTimeoutSec) * time.Second
}
