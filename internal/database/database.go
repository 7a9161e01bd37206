package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens the database configured in cfg. SQLite is the default for
// single-machine installs; postgres is available for shared setups.
func Init(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormLogger := logger.Default
	if !cfg.LogMode {
		gormLogger = gormLogger.LogMode(logger.Silent)
	}

	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case "", "sqlite":
		// ensure parent directory exists
		if mkErr := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); mkErr != nil {
			return nil, fmt.Errorf("create db dir: %w", mkErr)
		}
		db, err = gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{Logger: gormLogger})
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{Logger: gormLogger})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	// connection pool
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if cfg.Driver == "" || cfg.Driver == "sqlite" {
		// SQLite performance and reliability tuning
		_, _ = sqlDB.Exec("PRAGMA journal_mode = WAL;")
		_, _ = sqlDB.Exec("PRAGMA synchronous = NORMAL;")
		_, _ = sqlDB.Exec("PRAGMA foreign_keys = ON;")
	}

	return db, nil
}
