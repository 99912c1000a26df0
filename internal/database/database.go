// Package database opens the visitor store and runs work inside transactions.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

const (
	defaultRetryDelay = 2 * time.Second
	pingTimeout       = 5 * time.Second
)

// Config holds database configuration settings.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration

	// ConnectAttempts bounds the startup pings; values below 1 mean a single attempt.
	ConnectAttempts int
	// RetryDelay is the pause between failed pings, 2s when zero.
	RetryDelay time.Duration
}

// Connect opens a postgres or mysql pool and pings it until it answers, so the
// service can start alongside a database that is still booting.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	switch cfg.Driver {
	case "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := pingWithRetry(ctx, db, cfg.ConnectAttempts, cfg.RetryDelay, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// pingWithRetry pings db up to attempts times, waiting delay between failures.
func pingWithRetry(ctx context.Context, db *sql.DB, attempts int, delay time.Duration, logger *slog.Logger) error {
	if attempts < 1 {
		attempts = 1
	}
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		logger.Warn("database not reachable, retrying",
			slog.Int("attempt", attempt),
			slog.Int("attempts", attempts),
			slog.Any("error", err),
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to ping database: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("failed to ping database after %d attempts: %w", attempts, err)
}
