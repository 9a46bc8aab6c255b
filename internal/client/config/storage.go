package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Поддерживаемые хранилища учетных данных.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

// StorageConfig выбирает хранилище учетных данных.
type StorageConfig struct {
	Backend  string `yaml:"backend" env:"DOOMSCROLLR_STORAGE_BACKEND" env-default:"file"`
	FilePath string `yaml:"file_path" env:"DOOMSCROLLR_STORAGE_FILE_PATH" env-default:""`
}

// GetFilePath возвращает путь к файлу с токенами. По умолчанию он лежит
// в пользовательском каталоге конфигурации.
func (c *StorageConfig) GetFilePath() (string, error) {
	if c.FilePath != "" {
		return c.FilePath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "doomscrollr", "credentials.json"), nil
}

// RedisConfig описывает подключение к Redis для хранения токенов.
type RedisConfig struct {
	Host           string        `yaml:"host" env:"DOOMSCROLLR_REDIS_HOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"DOOMSCROLLR_REDIS_PORT" env-default:"6379"`
	Password       string        `yaml:"password" env:"DOOMSCROLLR_REDIS_PASSWORD" env-default:""`
	DB             int           `yaml:"db" env:"DOOMSCROLLR_REDIS_DB" env-default:"0"`
	KeyPrefix      string        `yaml:"key_prefix" env:"DOOMSCROLLR_REDIS_KEY_PREFIX" env-default:"doomscrollr:"`
	RefreshTTL     time.Duration `yaml:"refresh_ttl" env:"DOOMSCROLLR_REDIS_REFRESH_TTL" env-default:"0s"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DOOMSCROLLR_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"DOOMSCROLLR_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"DOOMSCROLLR_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	PoolSize       int           `yaml:"pool_size" env:"DOOMSCROLLR_REDIS_POOL_SIZE" env-default:"4"`
}

// GetAddress возвращает адрес Redis в формате host:port.
func (c *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
