package config

import "doomscrollr/pkg/logger"

// LoggingConfig описывает логирование клиента.
type LoggingConfig struct {
	Level string `yaml:"level" env:"DOOMSCROLLR_LOGGER_LEVEL" env-default:"warn"`
	Mode  string `yaml:"mode" env:"DOOMSCROLLR_LOGGER_MODE" env-default:"production"`
	File  string `yaml:"file" env:"DOOMSCROLLR_LOGGER_FILE" env-default:""`
}

// GetEnvironment возвращает режим работы логгера.
func (c *LoggingConfig) GetEnvironment() logger.Environment {
	if c.Mode == string(logger.Development) {
		return logger.Development
	}
	return logger.Production
}
