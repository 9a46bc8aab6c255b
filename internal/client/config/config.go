// Package config содержит конфигурацию клиента Doomscrollr.
package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	pkgconfig "doomscrollr/pkg/config"
	"doomscrollr/pkg/logger"
)

// Константы сообщений конфигурации.
const (
	LogConfigLoaded     = "client configuration loaded"
	ErrFailedLoadConfig = "failed to load client configuration"

	serviceName = "doomscrollr-client"
)

// Config - полная конфигурация клиента.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Session    SessionConfig    `yaml:"session"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	Logging    LoggingConfig    `yaml:"logging"`
	Resilience ResilienceConfig `yaml:"resilience"`
}

// Load загружает конфигурацию из окружения и необязательного .env файла.
func Load(ctx context.Context, envFile string) (*Config, error) {
	log := logger.Log(ctx)

	cfg, err := pkgconfig.Load[Config](ctx, serviceName, envFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	log.Info(ctx, LogConfigLoaded,
		zap.String("api_base_url", cfg.API.BaseURL),
		zap.Duration("api_timeout", cfg.API.Timeout),
		zap.String("refresh_path", cfg.Session.RefreshPath),
		zap.Duration("refresh_timeout", cfg.Session.RefreshTimeout),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("redis_address", cfg.Redis.GetAddress()),
		zap.Bool("resilience_enabled", cfg.Resilience.Enabled),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode))

	return cfg, nil
}
