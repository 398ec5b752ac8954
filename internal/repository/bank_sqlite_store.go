package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stemsi/qbank-manager/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS bank_entries (
	position INTEGER PRIMARY KEY,
	payload  TEXT    NOT NULL
)`

// SQLiteBankStore keeps one row per entry in a local SQLite database.
type SQLiteBankStore struct {
	db *sql.DB
}

// NewSQLiteBankStore creates the schema if needed and returns the store.
func NewSQLiteBankStore(ctx context.Context, db *sql.DB) (*SQLiteBankStore, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLiteBankStore{db: db}, nil
}

// Load retrieves all entries ordered by position.
func (r *SQLiteBankStore) Load(ctx context.Context) ([]model.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM bank_entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query bank entries: %w", err)
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		if e, ok := decodeEntry([]byte(payload)); ok {
			entries = append(entries, e)
		}
	}
	return entries, rows.Err()
}

// Save replaces every row inside a single transaction.
func (r *SQLiteBankStore) Save(ctx context.Context, entries []model.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bank_entries`); err != nil {
		return fmt.Errorf("clear bank entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO bank_entries (position, payload) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		data, err := encodeEntry(e)
		if err != nil {
			return fmt.Errorf("encode entry %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, i, string(data)); err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}

	return tx.Commit()
}
