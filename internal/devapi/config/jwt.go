package config

import "time"

// JWTConfig содержит настройки JWT токенов. Короткий AccessTokenTTL позволяет
// вручную проверить обновление токена клиентом.
type JWTConfig struct {
	SecretKey       string        `yaml:"secret_key" env:"DEVAPI_JWT_SECRET_KEY" env-default:"devapi-secret-change-me"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"DEVAPI_JWT_ACCESS_TOKEN_TTL" env-default:"5m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"DEVAPI_JWT_REFRESH_TOKEN_TTL" env-default:"24h"`
	RotateRefresh   bool          `yaml:"rotate_refresh" env:"DEVAPI_JWT_ROTATE_REFRESH" env-default:"false"`
	BCryptCost      int           `yaml:"bcrypt_cost" env:"DEVAPI_JWT_BCRYPT_COST" env-default:"10"`
}
