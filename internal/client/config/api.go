package config

import "time"

// APIConfig описывает удаленный REST API.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" env:"DOOMSCROLLR_API_BASE_URL" env-default:"https://doomscrollr.onrender.com/api/"`
	Timeout   time.Duration `yaml:"timeout" env:"DOOMSCROLLR_API_TIMEOUT" env-default:"30s"`
	UserAgent string        `yaml:"user_agent" env:"DOOMSCROLLR_API_USER_AGENT" env-default:"doomscrollr-cli"`
}
