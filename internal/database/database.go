package database

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog/internal/config"
	"catalog/internal/models"
)

// Connector hands out a database handle for the duration of one statement.
// The returned release func must be called exactly once.
type Connector interface {
	Acquire(ctx context.Context) (db *gorm.DB, release func(), err error)
	Close() error
}

// Dialector returns the gorm dialector for the configured driver.
func Dialector(cfg config.DBConfig) (gorm.Dialector, error) {
	dsn := cfg.ConnectionString()
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("driver %q has no SQL dialector", cfg.Driver)
	}
}

// Open opens a new gorm handle. gorm pings the server, so an unreachable
// database fails here.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates the Products table if it does not exist.
func Migrate(cfg config.DBConfig) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to migrate Products table: %w", err)
	}
	return nil
}

// NewConnector returns the connector for the configured connection mode.
func NewConnector(cfg config.DBConfig) (Connector, error) {
	switch cfg.ConnectionMode {
	case config.ModePooled:
		pooled, err := NewPooledConnector(cfg)
		if err != nil {
			return nil, err
		}
		return pooled, nil
	case config.ModePerRequest, "":
		return NewPerRequestConnector(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported connection mode %q", cfg.ConnectionMode)
	}
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
