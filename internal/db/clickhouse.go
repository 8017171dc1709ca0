package db

import (
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmehdipour/econnect-gateway/internal/config"
	"github.com/jmoiron/sqlx"
)

// NewClickHouseConnection opens the reporting store, e.g.
// clickhouse://default:@localhost:9000/econnect?dial_timeout=5s&compress=true
func NewClickHouseConnection(c config.DatabaseConfig) (*sqlx.DB, error) {
	return open("clickhouse", c, 3*time.Second)
}
