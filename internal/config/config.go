package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr  string     `env:"HTTP_ADDR" envDefault:":8000"`
	DBPath    string     `env:"DB_PATH" envDefault:"data/bingo.db"`
	JWTSecret string     `env:"JWT_SECRET,required"`
	RedisURL  string     `env:"REDIS_URL"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
