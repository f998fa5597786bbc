package database

import (
	"strings"

	"quartermaster-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens a GORM DB from DSN. postgres:// and postgresql:// URLs use the Postgres
// driver with PreferSimpleProtocol (connection poolers reject cached prepared
// statements); anything else is treated as a SQLite DSN.
func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if isPostgres(dsn) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), cfg)
	}
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; one connection keeps in-memory databases coherent.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// AutoMigrate creates or updates the parts schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Unit{}, &domain.Part{}, &domain.RepairEvent{})
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
