package db

import (
	"fmt"
	"strings"
	"time"

	"skyrelief/dispatch/internal/config"
	"skyrelief/dispatch/internal/logging"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const retryDelay = 500 * time.Millisecond

// Dialect normalises the configured driver name.
func Dialect(driver string) string {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql":
		return "postgres"
	case "mysql", "mariadb":
		return "mysql"
	default:
		return "sqlite"
	}
}

func dialector(cfg config.DatabaseConfig) gorm.Dialector {
	switch Dialect(cfg.Driver) {
	case "postgres":
		return postgres.Open(cfg.URL)
	case "mysql":
		return mysql.Open(cfg.URL)
	default:
		return sqlite.Open(sqliteDSN(cfg.URL))
	}
}

// sqliteDSN turns on foreign key enforcement, which SQLite leaves off by
// default.
func sqliteDSN(url string) string {
	url = strings.TrimPrefix(url, "sqlite://")
	if strings.Contains(url, "_foreign_keys") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_foreign_keys=on"
}

// Connect opens the ORM connection, retrying while the database comes up.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	var (
		conn *gorm.DB
		err  error
	)

	attempts := cfg.ConnRetries
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		conn, err = gorm.Open(dialector(cfg), gormCfg)
		if err == nil {
			break
		}
		logging.Warn("Database not ready", "attempt", i+1, "max_attempts", attempts, "error", err)
		time.Sleep(retryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", Dialect(cfg.Driver), err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if Dialect(cfg.Driver) == "sqlite" {
		// SQLite serialises writers; a single connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxOpenConns / 2)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	logging.Info("Connected to database via GORM", "dialect", Dialect(cfg.Driver))
	return conn, nil
}
