package logger_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"doomscrollr/pkg/logger"
)

func TestNewLogger(t *testing.T) {
	t.Run("accepts known levels", func(t *testing.T) {
		for _, lvl := range []string{"", "debug", "INFO", "warn", "error"} {
			l, err := logger.NewLogger(logger.Production, lvl)
			require.NoError(t, err, lvl)
			require.NotNil(t, l)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		l, err := logger.NewLogger(logger.Development, "loud")
		require.Error(t, err)
		assert.Nil(t, l)
	})
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")

	l, err := logger.NewFileLogger(logger.Production, "info", logger.FileOptions{Path: path})
	require.NoError(t, err)

	l.Info(context.Background(), "written to file", zap.String("key", "value"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), `"key":"value"`)
}

func TestFromContext(t *testing.T) {
	t.Run("success when logger exists in context", func(t *testing.T) {
		testLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		ctx := logger.NewContext(context.Background(), testLogger)

		retrieved, err := logger.FromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, testLogger, retrieved)
	})

	t.Run("error when no logger in context", func(t *testing.T) {
		retrieved, err := logger.FromContext(context.Background())
		require.Error(t, err)
		assert.Nil(t, retrieved)
		assert.ErrorIs(t, err, logger.ErrLoggerNotFound)
	})

	t.Run("error when context has non-logger values", func(t *testing.T) {
		type ctxKeyType struct{}

		ctx := context.WithValue(context.Background(), ctxKeyType{}, "not a logger")

		retrieved, err := logger.FromContext(ctx)
		require.Error(t, err)
		assert.Nil(t, retrieved)
		assert.ErrorIs(t, err, logger.ErrLoggerNotFound)
	})
}

func TestInitGlobalLogger(t *testing.T) {
	logger.SetGlobalLogger(nil)
	defer logger.SetGlobalLogger(nil)

	require.NoError(t, logger.InitGlobalLogger(logger.Production, "info"))
	first := logger.Log(context.Background())
	require.NotNil(t, first)

	require.NoError(t, logger.InitGlobalLogger(logger.Development, "debug"))
	assert.Same(t, first, logger.Log(context.Background()))
}

func TestLog(t *testing.T) {
	logger.SetGlobalLogger(nil)
	defer logger.SetGlobalLogger(nil)

	t.Run("context logger has priority over global", func(t *testing.T) {
		contextLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)
		globalLogger, err := logger.NewLogger(logger.Production, "error")
		require.NoError(t, err)
		logger.SetGlobalLogger(globalLogger)

		ctx := logger.NewContext(context.Background(), contextLogger)

		assert.Same(t, contextLogger, logger.Log(ctx))
	})

	t.Run("global logger when context is empty", func(t *testing.T) {
		globalLogger, err := logger.NewLogger(logger.Development, "info")
		require.NoError(t, err)
		logger.SetGlobalLogger(globalLogger)

		assert.Same(t, globalLogger, logger.Log(context.Background()))
	})

	t.Run("fallback logger is a singleton", func(t *testing.T) {
		logger.SetGlobalLogger(nil)

		first := logger.Log(context.Background())
		second := logger.Log(context.Background())
		require.NotNil(t, first)
		assert.Same(t, first, second)
	})
}

func TestRequestID(t *testing.T) {
	t.Run("explicit id is kept", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "req-1")

		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		assert.Equal(t, "req-1", id)
	})

	t.Run("empty id is generated", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "")

		id, ok := logger.GetRequestID(ctx)
		require.True(t, ok)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})

	t.Run("EnsureRequestID reuses existing id", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "req-2")

		_, id := logger.EnsureRequestID(ctx)
		assert.Equal(t, "req-2", id)

		newCtx, generated := logger.EnsureRequestID(context.Background())
		got, ok := logger.GetRequestID(newCtx)
		require.True(t, ok)
		assert.Equal(t, generated, got)
	})

	t.Run("WithRequestID returns new logger only when id exists", func(t *testing.T) {
		l, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		ctx := logger.NewRequestIDContext(context.Background(), "req-3")
		assert.NotSame(t, l, l.WithRequestID(ctx))
		assert.Same(t, l, l.WithRequestID(context.Background()))
	})
}
