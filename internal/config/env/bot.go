package env

import (
	"errors"
	"os"
	"strings"

	"github.com/Lina3386/weekgram/internal/config"
)

const (
	botTokenEnvName = "TELEGRAM_BOT_TOKEN"
	logLevelEnvName = "LOG_LEVEL"
)

type botConfig struct {
	token    string
	logLevel string
}

func NewBotConfig() (config.BotConfig, error) {
	token := os.Getenv(botTokenEnvName)
	if token == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN not found")
	}

	logLevel := strings.ToLower(os.Getenv(logLevelEnvName))
	if logLevel == "" {
		logLevel = "info"
	}

	return &botConfig{
		token:    token,
		logLevel: logLevel,
	}, nil
}

func (cfg *botConfig) Token() string {
	return cfg.token
}

func (cfg *botConfig) Debug() bool {
	return cfg.logLevel == "debug"
}

func (cfg *botConfig) LogLevel() string {
	return cfg.logLevel
}
