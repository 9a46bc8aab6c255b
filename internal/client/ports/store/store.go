// Package store определяет порт хранилища учетных данных сессии.
package store

import (
	"context"

	"doomscrollr/internal/client/domain/entities"
)

// CredentialStore хранит пару токенов в двух именованных слотах.
// Clear очищает оба слота вместе.
type CredentialStore interface {
	Load(ctx context.Context) (entities.Credentials, error)

	Save(ctx context.Context, creds entities.Credentials) error

	SaveAccess(ctx context.Context, access string) error

	Clear(ctx context.Context) error

	Close() error
}
