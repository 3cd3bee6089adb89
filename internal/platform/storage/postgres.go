package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

const createSessionTable = `CREATE TABLE IF NOT EXISTS client_session (
	namespace TEXT NOT NULL,
	field     TEXT NOT NULL,
	value     TEXT NOT NULL,
	PRIMARY KEY (namespace, field)
)`

// Postgres keeps one row per field. Set and Delete run in one transaction.
type Postgres struct {
	db        *sql.DB
	namespace string
}

func NewPostgres(db *sql.DB, namespace string) *Postgres {
	return &Postgres{db: db, namespace: namespace}
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createSessionTable); err != nil {
		return fmt.Errorf("storage.Postgres.EnsureSchema: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	query := `SELECT field, value FROM client_session WHERE namespace = $1`
	rows, err := p.db.QueryContext(ctx, query, p.namespace)
	if err != nil {
		return nil, fmt.Errorf("storage.Postgres.Get: %w", err)
	}
	defer rows.Close()

	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	out := make(map[string]string, len(keys))
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("storage.Postgres.Get scan: %w", err)
		}
		if wanted[field] {
			out[field] = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.Postgres.Get rows: %w", err)
	}
	return out, nil
}

func (p *Postgres) Set(ctx context.Context, fields map[string]string) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	query := `INSERT INTO client_session (namespace, field, value) VALUES ($1, $2, $3)
	          ON CONFLICT (namespace, field) DO UPDATE SET value = EXCLUDED.value`
	return p.inTx(ctx, "Set", func(tx *sql.Tx) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, query, p.namespace, k, fields[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Postgres) Delete(ctx context.Context, keys ...string) error {
	query := `DELETE FROM client_session WHERE namespace = $1 AND field = $2`
	return p.inTx(ctx, "Delete", func(tx *sql.Tx) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, query, p.namespace, k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Postgres) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.Postgres.%s begin: %w", op, err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := fn(tx); err != nil {
		return fmt.Errorf("storage.Postgres.%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.Postgres.%s commit: %w", op, err)
	}
	return nil
}
