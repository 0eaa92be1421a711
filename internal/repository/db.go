// Package repository owns database access. Handles are scoped per job:
// acquired, used for one export, released — never pooled across jobs, so a
// long batch run cannot trip over a stale connection.
package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"pgexport/internal/common"
)

// Connector opens a fresh database handle. The caller owns the handle and
// must close it when its job finishes.
type Connector interface {
	Connect(ctx context.Context) (*sql.DB, error)
}

// PostgresConnector connects to Postgres through the pgx stdlib driver.
type PostgresConnector struct {
	dsn         string
	dialTimeout time.Duration
	logger      *slog.Logger
}

func NewPostgresConnector(cfg common.DatabaseConfig, logger *slog.Logger) *PostgresConnector {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresConnector{dsn: cfg.DSN, dialTimeout: cfg.DialTimeout, logger: logger}
}

// Connect opens and pings a single-connection handle. Ping failures map to
// the connection branch of the failure taxonomy.
func (c *PostgresConnector) Connect(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.dsn)
	if err != nil {
		c.logger.Error("failed to open database", "error", err)
		return nil, common.NewAppError("CONNECT_FAILED", err.Error(), common.ErrConnection)
	}
	// One job, one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	if c.dialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.dialTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		c.logger.Error("failed to reach database", "error", err)
		return nil, common.NewAppError("CONNECT_FAILED", err.Error(), common.ErrConnection)
	}
	return db, nil
}
