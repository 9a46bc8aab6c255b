package config

import (
	"fmt"
	"time"
)

// HTTPConfig представляет конфигурацию HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"DEVAPI_HTTP_HOST" env-default:"127.0.0.1"`
	Port         int           `yaml:"port" env:"DEVAPI_HTTP_PORT" env-default:"8000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"DEVAPI_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"DEVAPI_HTTP_WRITE_TIMEOUT" env-default:"10s"`
	BodyLimit    int           `yaml:"body_limit" env:"DEVAPI_HTTP_BODY_LIMIT" env-default:"8388608"`
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ShutdownConfig представляет конфигурацию корректного завершения работы.
type ShutdownConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"DEVAPI_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// SeedConfig включает демонстрационные данные.
type SeedConfig struct {
	Enabled  bool   `yaml:"enabled" env:"DEVAPI_SEED_ENABLED" env-default:"true"`
	Username string `yaml:"username" env:"DEVAPI_SEED_USERNAME" env-default:"demo"`
	Password string `yaml:"password" env:"DEVAPI_SEED_PASSWORD" env-default:"demo-password"`
}
