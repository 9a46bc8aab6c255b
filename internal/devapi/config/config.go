// Package config содержит конфигурацию локального сервера Doomscrollr API.
package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	pkgconfig "doomscrollr/pkg/config"
	"doomscrollr/pkg/logger"
)

// Константы ошибок и сообщений для конфигурации.
const (
	LogConfigLoaded     = "devapi configuration loaded"
	ErrFailedLoadConfig = "failed to load devapi configuration"

	serviceName = "doomscrollr-devapi"
)

// Config представляет полную конфигурацию сервера.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
	Seed     SeedConfig     `yaml:"seed"`
}

// Load загружает конфигурацию из окружения и необязательного .env файла.
func Load(ctx context.Context, envFile string) (*Config, error) {
	log := logger.Log(ctx)

	cfg, err := pkgconfig.Load[Config](ctx, serviceName, envFile)
	if err != nil {
		log.Error(ctx, ErrFailedLoadConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	log.Info(ctx, LogConfigLoaded,
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.Duration("access_token_ttl", cfg.JWT.AccessTokenTTL),
		zap.Duration("refresh_token_ttl", cfg.JWT.RefreshTokenTTL),
		zap.Bool("rotate_refresh", cfg.JWT.RotateRefresh),
		zap.Bool("seed", cfg.Seed.Enabled),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Duration("shutdown_timeout", cfg.Shutdown.Timeout))

	return cfg, nil
}
