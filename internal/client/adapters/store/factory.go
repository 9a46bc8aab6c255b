package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"doomscrollr/internal/client/config"
	"doomscrollr/internal/client/ports/store"
	"doomscrollr/pkg/logger"
)

// LogStoreSelected сообщает о выбранном хранилище.
const LogStoreSelected = "credential store selected"

// ErrUnknownBackend возвращается для неизвестного типа хранилища.
var ErrUnknownBackend = errors.New("unknown credential store backend")

// NewStore создает хранилище учетных данных согласно конфигурации.
func NewStore(ctx context.Context, storage *config.StorageConfig, redisCfg *config.RedisConfig) (store.CredentialStore, error) {
	log := logger.Log(ctx)

	switch storage.Backend {
	case config.StorageMemory:
		log.Debug(ctx, LogStoreSelected, zap.String("backend", storage.Backend))
		return NewMemoryStore(), nil
	case config.StorageFile, "":
		path, err := storage.GetFilePath()
		if err != nil {
			return nil, err
		}
		log.Debug(ctx, LogStoreSelected, zap.String("backend", config.StorageFile), zap.String("path", path))
		return NewFileStore(path), nil
	case config.StorageRedis:
		log.Debug(ctx, LogStoreSelected, zap.String("backend", storage.Backend), zap.String("address", redisCfg.GetAddress()))
		rs, err := NewRedisStore(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, storage.Backend)
	}
}
