// Package db manages VisionPlan's persistence: a MySQL primary store and a
// local sqlite fallback used when the primary is unreachable.
package db

import (
	"fmt"

	"github.com/gbarbosa/visionplan/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Mode identifies which store an Open call ended up using.
type Mode string

const (
	// ModePrimary means the MySQL primary store is in use.
	ModePrimary Mode = "primary"
	// ModeDegraded means the sqlite fallback is in use because the primary
	// was unreachable. Writes are journaled for later replay.
	ModeDegraded Mode = "degraded"
)

// OpenResult reports the store a connection attempt resolved to. Callers can
// distinguish "healthy" from "degraded" instead of guessing from empty reads.
type OpenResult struct {
	DB     *gorm.DB
	Mode   Mode
	Reason string // cause of degradation, empty when Mode == ModePrimary
}

// DSN builds the MySQL DSN for the primary store.
func DSN(cfg config.DatabaseConfig) string {
	cred := cfg.User
	if cfg.Password != "" {
		cred += ":" + cfg.Password
	}
	return fmt.Sprintf("%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4", cred, cfg.Host, cfg.Port, cfg.Database)
}

// ConnectAdmin opens a GORM connection to the MySQL server with no database
// selected, for database create/drop operations.
func ConnectAdmin(cfg config.DatabaseConfig) (*gorm.DB, error) {
	admin := cfg
	admin.Database = ""
	db, err := gorm.Open(mysql.Open(DSN(admin)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: connect to %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return db, nil
}

// CreateDatabase creates the named database if it does not exist.
func CreateDatabase(admin *gorm.DB, name string) error {
	stmt := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)
	if err := admin.Exec(stmt).Error; err != nil {
		return fmt.Errorf("db: create database %s: %w", name, err)
	}
	return nil
}

// Connect opens a GORM connection to the primary MySQL store.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(DSN(cfg)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: connect to %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Database, err)
	}
	return db, nil
}

// ConnectFallback opens the local sqlite fallback store. Path may be
// ":memory:" for tests.
func ConnectFallback(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: open fallback %s: %w", path, err)
	}
	return db, nil
}

// Open connects to the primary store, falling back to the local sqlite store
// when the primary is unreachable. The fallback is migrated on open so that
// degraded-mode writes always have their tables.
func Open(cfg *config.Config) (*OpenResult, error) {
	primary, perr := Connect(cfg.Database)
	if perr == nil {
		return &OpenResult{DB: primary, Mode: ModePrimary}, nil
	}

	fallback, ferr := ConnectFallback(cfg.Fallback.Path)
	if ferr != nil {
		return nil, fmt.Errorf("db: primary unavailable (%v) and fallback failed: %w", perr, ferr)
	}
	if err := AutoMigrate(fallback); err != nil {
		return nil, err
	}
	if err := RegisterJournal(fallback); err != nil {
		return nil, err
	}
	return &OpenResult{DB: fallback, Mode: ModeDegraded, Reason: perr.Error()}, nil
}
