package store_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doomscrollr/internal/client/adapters/store"
	"doomscrollr/internal/client/config"
	"doomscrollr/internal/client/domain/entities"
	storePorts "doomscrollr/internal/client/ports/store"
)

func mockRedisServer(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return s
}

func redisConfig(t *testing.T, addr string) *config.RedisConfig {
	t.Helper()

	host, portStr, _ := strings.Cut(addr, ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return &config.RedisConfig{
		Host:           host,
		Port:           port,
		KeyPrefix:      "test:",
		ConnectTimeout: time.Second,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
		PoolSize:       2,
	}
}

func TestCredentialStoreContract(t *testing.T) {
	backends := map[string]func(t *testing.T) storePorts.CredentialStore{
		"memory": func(*testing.T) storePorts.CredentialStore {
			return store.NewMemoryStore()
		},
		"file": func(t *testing.T) storePorts.CredentialStore {
			return store.NewFileStore(filepath.Join(t.TempDir(), "nested", "credentials.json"))
		},
		"redis": func(t *testing.T) storePorts.CredentialStore {
			s := mockRedisServer(t)
			rs, err := store.NewRedisStore(context.Background(), redisConfig(t, s.Addr()))
			require.NoError(t, err)
			t.Cleanup(func() { _ = rs.Close() })
			return rs
		},
	}

	for name, newStore := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st := newStore(t)

			creds, err := st.Load(ctx)
			require.NoError(t, err)
			assert.True(t, creds.Empty(), "fresh store must be empty")

			require.NoError(t, st.Save(ctx, entities.Credentials{Access: "acc1", Refresh: "ref1"}))
			creds, err = st.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, entities.Credentials{Access: "acc1", Refresh: "ref1"}, creds)

			require.NoError(t, st.SaveAccess(ctx, "acc2"))
			creds, err = st.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "acc2", creds.Access)
			assert.Equal(t, "ref1", creds.Refresh, "SaveAccess must keep the refresh slot")

			require.NoError(t, st.Clear(ctx))
			creds, err = st.Load(ctx)
			require.NoError(t, err)
			assert.True(t, creds.Empty(), "Clear must empty both slots")

			require.NoError(t, st.Clear(ctx), "clearing an empty store is not an error")
		})
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("file is private", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")
		st := store.NewFileStore(path)

		require.NoError(t, st.Save(ctx, entities.Credentials{Access: "a", Refresh: "r"}))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("uses canonical slot names", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")
		st := store.NewFileStore(path)

		require.NoError(t, st.Save(ctx, entities.Credentials{Access: "a", Refresh: "r"}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `{"accessToken":"a","refreshToken":"r"}`, string(data))
	})

	t.Run("corrupted file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "credentials.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := store.NewFileStore(path).Load(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), store.ErrorFailedToDecode)
	})
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh slot gets ttl", func(t *testing.T) {
		s := mockRedisServer(t)
		client := redis.NewClient(&redis.Options{Addr: s.Addr()})
		rs := store.NewRedisStoreFromClient(client, "app:", time.Hour)
		t.Cleanup(func() { _ = rs.Close() })

		require.NoError(t, rs.Save(ctx, entities.Credentials{Access: "a", Refresh: "r"}))

		got, err := s.Get("app:" + entities.SlotRefreshToken)
		require.NoError(t, err)
		assert.Equal(t, "r", got)
		assert.Equal(t, time.Hour, s.TTL("app:"+entities.SlotRefreshToken))
		assert.Equal(t, time.Duration(0), s.TTL("app:"+entities.SlotAccessToken))
	})

	t.Run("empty value deletes slot", func(t *testing.T) {
		s := mockRedisServer(t)
		client := redis.NewClient(&redis.Options{Addr: s.Addr()})
		rs := store.NewRedisStoreFromClient(client, "", 0)
		t.Cleanup(func() { _ = rs.Close() })

		require.NoError(t, rs.Save(ctx, entities.Credentials{Access: "a", Refresh: "r"}))
		require.NoError(t, rs.Save(ctx, entities.Credentials{Refresh: "r"}))

		assert.False(t, s.Exists(entities.SlotAccessToken))
		assert.True(t, s.Exists(entities.SlotRefreshToken))
	})

	t.Run("connection failure", func(t *testing.T) {
		cfg := &config.RedisConfig{
			Host:           "127.0.0.1",
			Port:           1,
			ConnectTimeout: 100 * time.Millisecond,
			ReadTimeout:    100 * time.Millisecond,
			WriteTimeout:   100 * time.Millisecond,
		}

		rs, err := store.NewRedisStore(ctx, cfg)
		require.Error(t, err)
		assert.Nil(t, rs)
		assert.Contains(t, err.Error(), store.ErrorFailedToConnect)
	})

	t.Run("server error is reported", func(t *testing.T) {
		s := mockRedisServer(t)
		rs, err := store.NewRedisStore(ctx, redisConfig(t, s.Addr()))
		require.NoError(t, err)
		t.Cleanup(func() { _ = rs.Close() })

		s.SetError("READONLY")
		defer s.SetError("")

		_, err = rs.Load(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), store.ErrorFailedToGet)
	})
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		st, err := store.NewStore(ctx, &config.StorageConfig{Backend: config.StorageMemory}, &config.RedisConfig{})
		require.NoError(t, err)
		assert.IsType(t, &store.MemoryStore{}, st)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.json")
		st, err := store.NewStore(ctx, &config.StorageConfig{Backend: config.StorageFile, FilePath: path}, &config.RedisConfig{})
		require.NoError(t, err)
		fs, ok := st.(*store.FileStore)
		require.True(t, ok)
		assert.Equal(t, path, fs.Path())
	})

	t.Run("redis", func(t *testing.T) {
		s := mockRedisServer(t)
		st, err := store.NewStore(ctx, &config.StorageConfig{Backend: config.StorageRedis}, redisConfig(t, s.Addr()))
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close() })
		assert.IsType(t, &store.RedisStore{}, st)
	})

	t.Run("unknown backend", func(t *testing.T) {
		st, err := store.NewStore(ctx, &config.StorageConfig{Backend: "cookie"}, &config.RedisConfig{})
		require.Error(t, err)
		assert.Nil(t, st)
		assert.ErrorIs(t, err, store.ErrUnknownBackend)
	})
}
