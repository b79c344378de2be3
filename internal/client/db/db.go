package db

import (
	"database/sql"
)

type Client interface {
	DB() *sql.DB
	Driver() string
	Close() error
}
