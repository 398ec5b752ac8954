package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/qbank-manager/internal/model"
)

// PostgresBankStore keeps one row per entry in bank_entries, keyed by
// position. The table is created by the migrations in /migrations.
type PostgresBankStore struct {
	pool *pgxpool.Pool
}

// NewPostgresBankStore creates a new PostgresBankStore.
func NewPostgresBankStore(pool *pgxpool.Pool) *PostgresBankStore {
	return &PostgresBankStore{pool: pool}
}

// Load retrieves all entries ordered by position.
func (r *PostgresBankStore) Load(ctx context.Context) ([]model.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT payload FROM bank_entries ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("query bank entries: %w", err)
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		if e, ok := decodeEntry(payload); ok {
			entries = append(entries, e)
		}
	}
	return entries, rows.Err()
}

// Save replaces every row inside a single transaction.
func (r *PostgresBankStore) Save(ctx context.Context, entries []model.Entry) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM bank_entries`); err != nil {
		return fmt.Errorf("clear bank entries: %w", err)
	}

	batch := &pgx.Batch{}
	for i, e := range entries {
		data, err := encodeEntry(e)
		if err != nil {
			return fmt.Errorf("encode entry %d: %w", i, err)
		}
		batch.Queue(
			`INSERT INTO bank_entries (position, payload) VALUES ($1, $2::jsonb)`,
			i, string(data),
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert bank entries: %w", err)
		}
	}

	return tx.Commit(ctx)
}
