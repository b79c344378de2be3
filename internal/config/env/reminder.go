package env

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Lina3386/weekgram/internal/config"
)

const (
	reminderIntervalEnvName = "REMINDER_INTERVAL"
	reminderCheckEnvName    = "REMINDER_CHECK_INTERVAL"
	reminderTimezoneEnvName = "REMINDER_TIMEZONE"
	reminderCurrencyEnvName = "REMINDER_CURRENCY"
	reminderGreetingEnvName = "REMINDER_GREETING"

	defaultReminderInterval = 24 * time.Hour
	defaultCheckInterval    = 15 * time.Minute
	defaultReminderCurrency = "₹"
)

type reminderConfig struct {
	interval time.Duration
	check    time.Duration
	location *time.Location
	currency string
	greeting bool
}

func NewReminderConfig() (config.ReminderConfig, error) {
	interval := defaultReminderInterval
	if raw := os.Getenv(reminderIntervalEnvName); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < time.Minute {
			return nil, fmt.Errorf("%s must be a duration of at least 1m, got %q", reminderIntervalEnvName, raw)
		}
		interval = d
	}

	check := defaultCheckInterval
	if raw := os.Getenv(reminderCheckEnvName); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < time.Minute {
			return nil, fmt.Errorf("%s must be a duration of at least 1m, got %q", reminderCheckEnvName, raw)
		}
		check = d
	}

	location := time.Local
	if tz := os.Getenv(reminderTimezoneEnvName); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s %q: %w", reminderTimezoneEnvName, tz, err)
		}
		location = loc
	}

	currency, ok := os.LookupEnv(reminderCurrencyEnvName)
	if !ok {
		currency = defaultReminderCurrency
	}

	greeting := false
	if raw := os.Getenv(reminderGreetingEnvName); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be a boolean, got %q", reminderGreetingEnvName, raw)
		}
		greeting = b
	}

	return &reminderConfig{
		interval: interval,
		check:    check,
		location: location,
		currency: currency,
		greeting: greeting,
	}, nil
}

func (cfg *reminderConfig) Interval() time.Duration {
	return cfg.interval
}

func (cfg *reminderConfig) CheckInterval() time.Duration {
	return cfg.check
}

func (cfg *reminderConfig) Location() *time.Location {
	return cfg.location
}

func (cfg *reminderConfig) Currency() string {
	return cfg.currency
}

func (cfg *reminderConfig) Greeting() bool {
	return cfg.greeting
}
