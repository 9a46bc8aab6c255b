package devapi

import (
	"fmt"

	"doomscrollr/internal/devapi/config"
	"doomscrollr/internal/devapi/services"
	"doomscrollr/internal/devapi/storage"
)

// Seed создает демонстрационного пользователя, второго автора, пост и проект.
func Seed(store *storage.Memory, hasher *services.PasswordHasher, cfg config.SeedConfig) error {
	hash, err := hasher.Hash(cfg.Password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	demo, err := store.CreateUser(cfg.Username, cfg.Username+"@doomscrollr.local", hash)
	if err != nil {
		return fmt.Errorf("create %s: %w", cfg.Username, err)
	}
	author, err := store.CreateUser("doomscroller", "doomscroller@doomscrollr.local", hash)
	if err != nil {
		return fmt.Errorf("create doomscroller: %w", err)
	}

	if _, err := store.CreatePost(author.ID, "Hello", "First post on the local API.", ""); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	if _, err := store.CreateProject(author.ID, "Community garden", "Raised beds for the block.", 500, ""); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return store.Follow(demo.ID, author.ID)
}
