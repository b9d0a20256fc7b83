package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"roster/internal/config"
	"roster/internal/model"
)

// MemoryPath selects a private in-memory SQLite database.
const MemoryPath = ":memory:"

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// NewSQLite opens a pure-Go SQLite database. Use ":memory:" for throwaway stores.
func NewSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == MemoryPath {
		// every pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// NewMemory returns a migrated in-memory SQLite store.
func NewMemory() (*gorm.DB, error) {
	db, err := NewSQLite(MemoryPath)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open picks the dialect named by cfg.DBDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "mysql":
		return NewMySQL(cfg.MySQLDSN)
	case "sqlite":
		return NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Migrate creates the roster tables when they do not exist yet. Production
// tables are owned by the external store, so this is only run on request.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Credential{}, &model.Project{}, &model.Employee{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
