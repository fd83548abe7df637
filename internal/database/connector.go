package database

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"catalog/internal/config"
)

// PerRequestConnector opens a brand-new connection on every Acquire and
// closes it on release. Nothing is shared between requests.
type PerRequestConnector struct {
	cfg  config.DBConfig
	open func(config.DBConfig) (*gorm.DB, error)

	opened atomic.Int64
	closed atomic.Int64
}

// NewPerRequestConnector creates a connector that never reuses connections.
func NewPerRequestConnector(cfg config.DBConfig) *PerRequestConnector {
	return &PerRequestConnector{cfg: cfg, open: Open}
}

// Acquire opens a fresh connection bound to ctx.
func (c *PerRequestConnector) Acquire(ctx context.Context) (*gorm.DB, func(), error) {
	db, err := c.open(c.cfg)
	if err != nil {
		return nil, nil, err
	}
	c.opened.Add(1)

	release := func() {
		if err := closeDB(db); err != nil {
			log.Warn().Err(err).Msg("failed to close per-request connection")
		}
		c.closed.Add(1)
	}
	return db.WithContext(ctx), release, nil
}

// Stats reports how many connections were opened and closed so far.
func (c *PerRequestConnector) Stats() (opened, closed int64) {
	return c.opened.Load(), c.closed.Load()
}

// Close is a no-op; every connection is closed by its own release.
func (c *PerRequestConnector) Close() error {
	return nil
}

// PooledConnector shares one gorm pool and scopes each Acquire to the
// caller's context.
type PooledConnector struct {
	db *gorm.DB
}

// NewPooledConnector opens the pool once.
func NewPooledConnector(cfg config.DBConfig) (*PooledConnector, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == config.DriverSQLite {
		// SQLite allows a single writer; serialize through one connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return &PooledConnector{db: db}, nil
}

// NewPooledConnectorFromDB wraps an existing handle.
func NewPooledConnectorFromDB(db *gorm.DB) *PooledConnector {
	return &PooledConnector{db: db}
}

// Acquire returns a session bound to ctx. Release is a no-op because the
// underlying connection goes back to the pool when the statement finishes.
func (c *PooledConnector) Acquire(ctx context.Context) (*gorm.DB, func(), error) {
	return c.db.WithContext(ctx), func() {}, nil
}

// Close closes the pool.
func (c *PooledConnector) Close() error {
	return closeDB(c.db)
}
