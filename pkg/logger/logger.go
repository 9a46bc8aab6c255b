// Package logger предоставляет структурированное логирование на базе zap
// с привязкой логгера и идентификатора запроса к контексту.
package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Environment определяет режим работы логгера.
type Environment string

// Поддерживаемые режимы.
const (
	Development Environment = "development"
	Production  Environment = "production"
)

// RequestID - имя поля с идентификатором запроса.
const RequestID = "request_id"

// Параметры ротации файла логов.
const (
	defaultMaxSizeMB  = 50
	defaultMaxBackups = 3
	defaultMaxAgeDays = 14
)

// Logger оборачивает zap.Logger и добавляет request_id из контекста.
type Logger struct {
	l *zap.Logger
}

// FileOptions задает вывод логов в файл с ротацией.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewLogger создает логгер для заданного режима и уровня.
// Пустой уровень означает debug для development и info для production.
func NewLogger(env Environment, level string) (*Logger, error) {
	cfg := zapConfig(env)

	lvl, err := parseLevel(env, level)
	if err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	zl, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}

	return &Logger{l: zl}, nil
}

// NewFileLogger создает логгер, который пишет в файл с ротацией через lumberjack.
func NewFileLogger(env Environment, level string, opts FileOptions) (*Logger, error) {
	if opts.Path == "" {
		return NewLogger(env, level)
	}

	lvl, err := parseLevel(env, level)
	if err != nil {
		return nil, err
	}

	writer := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    valueOr(opts.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: valueOr(opts.MaxBackups, defaultMaxBackups),
		MaxAge:     valueOr(opts.MaxAgeDays, defaultMaxAgeDays),
		Compress:   true,
	}

	encCfg := zapConfig(env).EncoderConfig
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(writer), lvl)

	return &Logger{l: zap.New(core, zap.AddCaller())}, nil
}

// NewNop возвращает логгер, который ничего не пишет.
func NewNop() *Logger {
	return &Logger{l: zap.NewNop()}
}

func zapConfig(env Environment) zap.Config {
	if env == Development {
		return zap.NewDevelopmentConfig()
	}
	return zap.NewProductionConfig()
}

func parseLevel(env Environment, level string) (zapcore.Level, error) {
	if strings.TrimSpace(level) == "" {
		if env == Development {
			return zapcore.DebugLevel, nil
		}
		return zapcore.InfoLevel, nil
	}

	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return lvl, nil
}

func valueOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// With возвращает копию логгера с дополнительными полями.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{l: l.l.With(fields...)}
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Info(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Warn(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Error(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Debug(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Fatal(msg, addRequestID(ctx, fields)...)
}

// Sync сбрасывает буферы логгера.
func (l *Logger) Sync() error {
	return l.l.Sync()
}

// addRequestID добавляет request_id из контекста к полям записи.
func addRequestID(ctx context.Context, fields []zap.Field) []zap.Field {
	if ctx == nil {
		return fields
	}
	if id, ok := GetRequestID(ctx); ok {
		return append(fields, zap.String(RequestID, id))
	}
	return fields
}
