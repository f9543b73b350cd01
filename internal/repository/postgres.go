// Package repository persists orders and evaluates coupons in Postgres.
package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/go-faster/errors"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNoRows is returned when a statement that must produce a row produced none.
var ErrNoRows = errors.New("no rows in result")

const (
	pingAttempts   = 5
	pingRetryDelay = 2 * time.Second
)

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to Postgres through the pgx driver and waits until the server
// answers a ping, retrying a few times while it starts up.
func Open(ctx context.Context, dsn string, pool PoolConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := ping(ctx, db, pingAttempts, pingRetryDelay, logger); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("connected to database",
		"max_open_conns", pool.MaxOpenConns,
		"max_idle_conns", pool.MaxIdleConns,
	)
	return db, nil
}

func ping(ctx context.Context, db *sql.DB, attempts int, delay time.Duration, logger *slog.Logger) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		logger.Warn("database ping failed",
			"attempt", i,
			"max_attempts", attempts,
			"error", err,
		)
		if i == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "wait for database")
		case <-time.After(delay):
		}
	}
	return errors.Wrapf(err, "database unreachable after %d attempts", attempts)
}

// queryTimeout bounds a single statement.
type queryTimeout time.Duration

func (t queryTimeout) apply(ctx context.Context) (context.Context, context.CancelFunc) {
	if t <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(t))
}
