package db

import (
	"fmt"
	"time"

	"skyrelief/dispatch/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

// OpenSQLX returns the sqlx handle used for raw aggregate queries. Postgres
// gets its own lib/pq pool; other dialects share the ORM's connection pool.
func OpenSQLX(cfg config.DatabaseConfig, orm *gorm.DB) (*sqlx.DB, error) {
	if Dialect(cfg.Driver) == "postgres" {
		return connectPostgres(cfg)
	}

	sqlDB, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	driverName := "sqlite3"
	if Dialect(cfg.Driver) == "mysql" {
		driverName = "mysql"
	}
	return sqlx.NewDb(sqlDB, driverName), nil
}

func connectPostgres(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)

	for i := 0; i < max(cfg.ConnRetries, 1); i++ {
		conn, err = sqlx.Connect("postgres", cfg.URL)
		if err == nil {
			if cfg.MaxOpenConns > 0 {
				conn.SetMaxOpenConns(cfg.MaxOpenConns / 2)
			}
			return conn, nil
		}
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("failed to connect to postgres: %w", err)
}
