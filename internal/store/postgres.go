package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	readSlotQuery = `
		SELECT body
		FROM storefront.collection_slots
		WHERE name = $1;
	`
	writeSlotQuery = `
		INSERT INTO storefront.collection_slots (name, body)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = CURRENT_TIMESTAMP;
	`
	createSchemaQuery = `
		CREATE SCHEMA IF NOT EXISTS storefront;
		CREATE TABLE IF NOT EXISTS storefront.collection_slots (
			name       TEXT PRIMARY KEY,
			body       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
)

// pqUndefinedTable is the SQLSTATE reported before EnsureSchema has run.
const pqUndefinedTable = "42P01"

// PostgresBackend stores each collection as one JSONB row, so a checkout commit can
// replace several collections in a single transaction.
type PostgresBackend struct {
	db *sql.DB
}

// NewPostgresBackend creates a new PostgresBackend instance.
func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// EnsureSchema creates the slot table if it does not exist yet.
func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, createSchemaQuery); err != nil {
		return fmt.Errorf("store: EnsureSchema failed: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Read(ctx context.Context, c Collection) ([]byte, error) {
	var body []byte
	err := b.db.QueryRowContext(ctx, readSlotQuery, string(c)).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("store: Read %s failed to scan row: %w", c, err)
	}
	return body, nil
}

func (b *PostgresBackend) Write(ctx context.Context, c Collection, data []byte) error {
	if _, err := b.db.ExecContext(ctx, writeSlotQuery, string(c), string(data)); err != nil {
		return fmt.Errorf("store: Write %s failed: %w", c, err)
	}
	return nil
}

// WriteBatch replaces every slot in writes inside one transaction.
func (b *PostgresBackend) WriteBatch(ctx context.Context, writes []SlotWrite) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: WriteBatch failed to begin: %w", err)
	}
	for _, w := range writes {
		if _, err := tx.ExecContext(ctx, writeSlotQuery, string(w.Collection), string(w.Data)); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("store: WriteBatch %s failed: %w (rollback: %v)", w.Collection, err, rbErr)
			}
			return fmt.Errorf("store: WriteBatch %s failed: %w", w.Collection, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: WriteBatch failed to commit: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

func (b *PostgresBackend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
