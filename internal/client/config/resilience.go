package config

import "time"

// ResilienceConfig настраивает повтор и circuit breaker для транспортных сбоев.
// По умолчанию выключено: транспортные ошибки возвращаются вызывающему как есть.
type ResilienceConfig struct {
	Enabled          bool          `yaml:"enabled" env:"DOOMSCROLLR_RESILIENCE_ENABLED" env-default:"false"`
	MaxAttempts      int           `yaml:"max_attempts" env:"DOOMSCROLLR_RESILIENCE_MAX_ATTEMPTS" env-default:"3"`
	InitialBackoff   time.Duration `yaml:"initial_backoff" env:"DOOMSCROLLR_RESILIENCE_INITIAL_BACKOFF" env-default:"100ms"`
	MaxBackoff       time.Duration `yaml:"max_backoff" env:"DOOMSCROLLR_RESILIENCE_MAX_BACKOFF" env-default:"1s"`
	BreakerThreshold int           `yaml:"breaker_threshold" env:"DOOMSCROLLR_RESILIENCE_BREAKER_THRESHOLD" env-default:"5"`
	BreakerTimeout   time.Duration `yaml:"breaker_timeout" env:"DOOMSCROLLR_RESILIENCE_BREAKER_TIMEOUT" env-default:"10s"`
	BreakerSuccesses int           `yaml:"breaker_successes" env:"DOOMSCROLLR_RESILIENCE_BREAKER_SUCCESSES" env-default:"2"`
}
