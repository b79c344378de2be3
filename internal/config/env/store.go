package env

import (
	"errors"
	"fmt"
	"os"

	"github.com/Lina3386/weekgram/internal/config"
)

const (
	storeDriverEnvName = "STORE_DRIVER"
	storePathEnvName   = "STORE_PATH"

	pgUserEnvName     = "DB_USER"
	pgPasswordEnvName = "DB_PASSWORD"
	pgHostEnvName     = "DB_HOST"
	pgPortEnvName     = "DB_PORT"
	pgNameEnvName     = "DB_NAME"
	pgSSLModeEnvName  = "DB_SSLMODE"

	defaultStorePath = "weekgram.db"
)

type storeConfig struct {
	driver string
	dsn    string
}

func NewStoreConfig() (config.StoreConfig, error) {
	driver := os.Getenv(storeDriverEnvName)
	if driver == "" {
		driver = config.DriverSQLite
	}

	switch driver {
	case config.DriverSQLite:
		path := os.Getenv(storePathEnvName)
		if path == "" {
			path = defaultStorePath
		}
		return &storeConfig{driver: driver, dsn: path}, nil
	case config.DriverPostgres:
		dsn, err := postgresDSN()
		if err != nil {
			return nil, err
		}
		return &storeConfig{driver: driver, dsn: dsn}, nil
	default:
		return nil, fmt.Errorf("unsupported %s %q", storeDriverEnvName, driver)
	}
}

func postgresDSN() (string, error) {
	dbUser := os.Getenv(pgUserEnvName)
	dbPassword := os.Getenv(pgPasswordEnvName)
	dbHost := os.Getenv(pgHostEnvName)
	dbPort := os.Getenv(pgPortEnvName)
	dbName := os.Getenv(pgNameEnvName)
	dbSSLMode := os.Getenv(pgSSLModeEnvName)

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbSSLMode == "" {
		dbSSLMode = "disable"
	}
	if dbUser == "" || dbPassword == "" || dbName == "" {
		return "", errors.New("DB_USER, DB_PASSWORD, DB_NAME are required")
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPassword, dbHost, dbPort, dbName, dbSSLMode), nil
}

func (cfg *storeConfig) Driver() string {
	return cfg.driver
}

func (cfg *storeConfig) DSN() string {
	return cfg.dsn
}
