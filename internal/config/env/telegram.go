package env

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Lina3386/weekgram/internal/config"
)

const (
	telegramAPIBaseEnvName = "TELEGRAM_API_BASE"
	telegramTimeoutEnvName = "TELEGRAM_TIMEOUT"

	defaultTelegramAPIBase = "https://api.telegram.org"
	defaultTelegramTimeout = 10 * time.Second
)

type telegramConfig struct {
	apiBase string
	timeout time.Duration
}

func NewTelegramConfig() (config.TelegramConfig, error) {
	apiBase := strings.TrimRight(os.Getenv(telegramAPIBaseEnvName), "/")
	if apiBase == "" {
		apiBase = defaultTelegramAPIBase
	}
	if u, err := url.Parse(apiBase); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s must be an absolute URL, got %q", telegramAPIBaseEnvName, apiBase)
	}

	timeout := defaultTelegramTimeout
	if raw := os.Getenv(telegramTimeoutEnvName); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%s must be a positive duration, got %q", telegramTimeoutEnvName, raw)
		}
		timeout = d
	}

	return &telegramConfig{
		apiBase: apiBase,
		timeout: timeout,
	}, nil
}

func (cfg *telegramConfig) APIBase() string {
	return cfg.apiBase
}

func (cfg *telegramConfig) Timeout() time.Duration {
	return cfg.timeout
}
