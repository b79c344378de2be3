package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type BotConfig interface {
	Token() string
	Debug() bool
	LogLevel() string
}

type TelegramConfig interface {
	APIBase() string
	Timeout() time.Duration
}

type StoreConfig interface {
	Driver() string
	DSN() string
}

type ReminderConfig interface {
	Interval() time.Duration
	// CheckInterval is how often a saved notification schedule is checked.
	CheckInterval() time.Duration
	Location() *time.Location
	Currency() string
	Greeting() bool
}

// Load reads a .env file into the process environment. A missing file is not an error,
// variables may come from the environment alone.
func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
