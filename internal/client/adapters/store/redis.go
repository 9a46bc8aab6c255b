package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"doomscrollr/internal/client/config"
	"doomscrollr/internal/client/domain/entities"
	"doomscrollr/internal/client/ports/store"
	"doomscrollr/pkg/logger"
)

// Константы для логирования.
const (
	ErrorFailedToConnect   = "failed to connect to redis"
	ErrorFailedToGet       = "failed to get credentials from redis"
	ErrorFailedToSet       = "failed to set credentials in redis"
	ErrorFailedToDelete    = "failed to delete credentials from redis"
	ErrorFailedToCloseConn = "failed to close redis connection"
)

// RedisStore хранит токены в двух ключах Redis.
type RedisStore struct {
	client     *redis.Client
	accessKey  string
	refreshKey string
	refreshTTL time.Duration
}

var _ store.CredentialStore = (*RedisStore)(nil)

// NewRedisStore подключается к Redis и проверяет соединение.
func NewRedisStore(ctx context.Context, cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetAddress(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.ConnectTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", ErrorFailedToConnect, err)
	}

	return NewRedisStoreFromClient(client, cfg.KeyPrefix, cfg.RefreshTTL), nil
}

// NewRedisStoreFromClient использует готовый клиент. refreshTTL 0 означает без срока.
func NewRedisStoreFromClient(client *redis.Client, keyPrefix string, refreshTTL time.Duration) *RedisStore {
	return &RedisStore{
		client:     client,
		accessKey:  keyPrefix + entities.SlotAccessToken,
		refreshKey: keyPrefix + entities.SlotRefreshToken,
		refreshTTL: refreshTTL,
	}
}

// Load читает оба слота одной командой MGET.
func (s *RedisStore) Load(ctx context.Context) (entities.Credentials, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodLoad))

	values, err := s.client.MGet(ctx, s.accessKey, s.refreshKey).Result()
	if err != nil {
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return entities.Credentials{}, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	return entities.Credentials{
		Access:  asString(values, 0),
		Refresh: asString(values, 1),
	}, nil
}

// Save записывает оба слота в одной транзакции MULTI/EXEC.
func (s *RedisStore) Save(ctx context.Context, creds entities.Credentials) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSave))

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		setOrDelete(ctx, pipe, s.accessKey, creds.Access, 0)
		setOrDelete(ctx, pipe, s.refreshKey, creds.Refresh, s.refreshTTL)
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}
	return nil
}

// SaveAccess заменяет только access токен.
func (s *RedisStore) SaveAccess(ctx context.Context, access string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSave))

	var err error
	if access == "" {
		err = s.client.Del(ctx, s.accessKey).Err()
	} else {
		err = s.client.Set(ctx, s.accessKey, access, 0).Err()
	}
	if err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}
	return nil
}

// Clear удаляет оба ключа одной командой DEL.
func (s *RedisStore) Clear(ctx context.Context) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodClear))

	if err := s.client.Del(ctx, s.accessKey, s.refreshKey).Err(); err != nil {
		log.Error(ctx, ErrorFailedToDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDelete, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToCloseConn, err)
	}
	return nil
}

func setOrDelete(ctx context.Context, pipe redis.Pipeliner, key, value string, ttl time.Duration) {
	if value == "" {
		pipe.Del(ctx, key)
		return
	}
	pipe.Set(ctx, key, value, ttl)
}

func asString(values []interface{}, i int) string {
	if i >= len(values) {
		return ""
	}
	s, _ := values[i].(string)
	return s
}
