package db

import (
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmehdipour/econnect-gateway/internal/config"
	"github.com/jmoiron/sqlx"
)

// NewMySQLConnection opens the journal/submission store. The DSN needs
// parseTime=true; migrate also needs multiStatements=true.
func NewMySQLConnection(c config.DatabaseConfig) (*sqlx.DB, error) {
	return open("mysql", c, 5*time.Second)
}
