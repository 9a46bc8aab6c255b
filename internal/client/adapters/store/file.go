package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"doomscrollr/internal/client/domain/entities"
	"doomscrollr/internal/client/ports/store"
	"doomscrollr/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodLoad  = "load"
	LogMethodSave  = "save"
	LogMethodClear = "clear"

	ErrorFailedToRead   = "failed to read credentials file"
	ErrorFailedToDecode = "failed to decode credentials file"
	ErrorFailedToWrite  = "failed to write credentials file"
	ErrorFailedToRemove = "failed to remove credentials file"
)

const (
	fileMode = 0o600
	dirMode  = 0o700
)

// FileStore хранит токены в JSON файле, доступном только владельцу.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore создает хранилище в указанном файле. Файл создается при первой записи.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var _ store.CredentialStore = (*FileStore)(nil)

// Path возвращает путь к файлу.
func (s *FileStore) Path() string {
	return s.path
}

// Load читает пару из файла. Отсутствующий файл означает пустую пару.
func (s *FileStore) Load(ctx context.Context) (entities.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read(ctx)
}

// Save перезаписывает файл целиком.
func (s *FileStore) Save(ctx context.Context, creds entities.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(ctx, creds)
}

// SaveAccess заменяет access токен, сохраняя refresh токен.
func (s *FileStore) SaveAccess(ctx context.Context, access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.read(ctx)
	if err != nil {
		return err
	}
	creds.Access = access
	return s.write(ctx, creds)
}

// Clear удаляет файл, тем самым очищая оба слота сразу.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.Log(ctx).With(zap.String("method", LogMethodClear), zap.String("path", s.path))

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Error(ctx, ErrorFailedToRemove, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToRemove, err)
	}
	return nil
}

// Close ничего не делает.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read(ctx context.Context) (entities.Credentials, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodLoad), zap.String("path", s.path))

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entities.Credentials{}, nil
		}
		log.Error(ctx, ErrorFailedToRead, zap.Error(err))
		return entities.Credentials{}, fmt.Errorf("%s: %w", ErrorFailedToRead, err)
	}

	var creds entities.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		log.Error(ctx, ErrorFailedToDecode, zap.Error(err))
		return entities.Credentials{}, fmt.Errorf("%s: %w", ErrorFailedToDecode, err)
	}
	return creds, nil
}

// write пишет во временный файл и переименовывает его, чтобы слоты менялись вместе.
func (s *FileStore) write(ctx context.Context, creds entities.Credentials) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSave), zap.String("path", s.path))

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToWrite, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		log.Error(ctx, ErrorFailedToWrite, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToWrite, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*")
	if err != nil {
		log.Error(ctx, ErrorFailedToWrite, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToWrite, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", ErrorFailedToWrite, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		log.Error(ctx, ErrorFailedToWrite, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToWrite, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		log.Error(ctx, ErrorFailedToWrite, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToWrite, err)
	}
	return nil
}
