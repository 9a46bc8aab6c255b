package config

import "time"

// SessionConfig описывает обновление токенов.
type SessionConfig struct {
	RefreshPath    string        `yaml:"refresh_path" env:"DOOMSCROLLR_SESSION_REFRESH_PATH" env-default:"auth/token/refresh/"`
	AuthScheme     string        `yaml:"auth_scheme" env:"DOOMSCROLLR_SESSION_AUTH_SCHEME" env-default:"Bearer"`
	RefreshTimeout time.Duration `yaml:"refresh_timeout" env:"DOOMSCROLLR_SESSION_REFRESH_TIMEOUT" env-default:"10s"`
}
