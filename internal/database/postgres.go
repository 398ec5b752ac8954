package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stemsi/qbank-manager/internal/config"
)

// NewPostgresPool connects to the bank database and checks that the
// bank_entries table from the migrations exists.
func NewPostgresPool(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxDBConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	var table *string
	if err := pool.QueryRow(ctx, `SELECT to_regclass('bank_entries')::text`).Scan(&table); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if table == nil {
		pool.Close()
		return nil, fmt.Errorf("table bank_entries missing: run `migrate up` first")
	}

	log.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Int32("max_conns", cfg.MaxDBConns).
		Msg("PostgreSQL connected")

	return pool, nil
}
