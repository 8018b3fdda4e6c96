// Package store persists computed dashboard snapshots. PostgreSQL (JSONB) is
// the primary vault; a directory of JSON files serves local runs without a
// database.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrNoDatabaseURL is returned by InitDB when no connection string is set.
var ErrNoDatabaseURL = errors.New("database url not set")

var (
	pool    *pgxpool.Pool
	once    sync.Once
	initErr error
)

// InitDB opens the shared connection pool and pings it. Only the first call
// connects; later calls return the first call's error. A server that cannot
// be reached leaves no pool behind.
func InitDB(ctx context.Context, url string) error {
	once.Do(func() {
		initErr = openPool(ctx, url)
	})
	return initErr
}

func openPool(ctx context.Context, url string) error {
	if url == "" {
		return ErrNoDatabaseURL
	}
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}
	p, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to open database pool: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return fmt.Errorf("failed to reach database %s: %w", config.ConnConfig.Host, err)
	}
	pool = p
	zap.L().Info("database pool ready",
		zap.String("host", config.ConnConfig.Host),
		zap.String("database", config.ConnConfig.Database))
	return nil
}

// GetPool returns the shared pool, nil before a successful InitDB.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the shared pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
