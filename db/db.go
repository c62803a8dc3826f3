package db

import (
	"context"
	"fmt"

	"menu-telegram/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool for the configured database. The pool is owned
// by the caller and shared across request handlers; pgxpool checkout is
// safe for concurrent use, unlike a single shared connection.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	return pool, nil
}
