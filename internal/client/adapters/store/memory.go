// Package store содержит реализации хранилища учетных данных.
package store

import (
	"context"
	"sync"

	"doomscrollr/internal/client/domain/entities"
	"doomscrollr/internal/client/ports/store"
)

// MemoryStore держит токены в памяти процесса.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemoryStore создает пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]string, 2)}
}

var _ store.CredentialStore = (*MemoryStore)(nil)

// Load возвращает сохраненную пару.
func (s *MemoryStore) Load(_ context.Context) (entities.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return entities.Credentials{
		Access:  s.slots[entities.SlotAccessToken],
		Refresh: s.slots[entities.SlotRefreshToken],
	}, nil
}

// Save заменяет оба слота.
func (s *MemoryStore) Save(_ context.Context, creds entities.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	setSlot(s.slots, entities.SlotAccessToken, creds.Access)
	setSlot(s.slots, entities.SlotRefreshToken, creds.Refresh)
	return nil
}

// SaveAccess заменяет только access токен.
func (s *MemoryStore) SaveAccess(_ context.Context, access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	setSlot(s.slots, entities.SlotAccessToken, access)
	return nil
}

// Clear удаляет оба слота.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.slots)
	return nil
}

// Close ничего не делает.
func (s *MemoryStore) Close() error {
	return nil
}

func setSlot(slots map[string]string, key, value string) {
	if value == "" {
		delete(slots, key)
		return
	}
	slots[key] = value
}
