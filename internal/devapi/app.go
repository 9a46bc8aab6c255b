// Package devapi собирает локальный сервер Doomscrollr API для разработки и тестов клиента.
package devapi

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"doomscrollr/internal/devapi/config"
	devhttp "doomscrollr/internal/devapi/http"
	"doomscrollr/internal/devapi/http/handlers"
	"doomscrollr/internal/devapi/services"
	"doomscrollr/internal/devapi/storage"
	"doomscrollr/pkg/logger"
)

const (
	appName = "doomscrollr-devapi"

	LogSeeded           = "demo data seeded"
	ErrorFailedTokens   = "failed to create token issuer"
	ErrorFailedSeedData = "failed to seed demo data"
)

// Options - необязательные зависимости сервера.
type Options struct {
	// Store - хранилище данных. nil означает новое пустое хранилище.
	Store *storage.Memory
	// Registry - реестр метрик для /metrics. nil означает новый реестр
	// с метриками Go runtime и процесса.
	Registry *prometheus.Registry
	// Clock - источник времени для токенов.
	Clock func() time.Time
}

// New создает fiber приложение со всеми маршрутами.
func New(ctx context.Context, cfg *config.Config, opts Options) (*fiber.App, error) {
	log := logger.Log(ctx)

	tokens, err := services.NewTokenIssuer(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL,
		services.WithClock(opts.Clock))
	if err != nil {
		log.Error(ctx, ErrorFailedTokens, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedTokens, err)
	}
	hasher := services.NewPasswordHasher(cfg.JWT.BCryptCost)

	store := opts.Store
	if store == nil {
		store = storage.NewMemory()
	}
	if cfg.Seed.Enabled {
		if err := Seed(store, hasher, cfg.Seed); err != nil {
			log.Error(ctx, ErrorFailedSeedData, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", ErrorFailedSeedData, err)
		}
		log.Info(ctx, LogSeeded, zap.String("username", cfg.Seed.Username))
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		BodyLimit:    cfg.HTTP.BodyLimit,
	})

	devhttp.SetupRouter(app, handlers.NewHandler(store, tokens, hasher, cfg.JWT.RotateRefresh), tokens, reg)
	return app, nil
}
