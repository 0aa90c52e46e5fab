package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartkv-demo/internal/port"
)

const (
	getValueQuery = `SELECT value FROM cart_kv WHERE key = $1`

	setValueQuery = `INSERT INTO cart_kv (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	removeValueQuery = `DELETE FROM cart_kv WHERE key = $1`
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresStorage struct {
	db dbtx
}

func NewPostgres(pool *pgxpool.Pool) port.Storage {
	return &postgresStorage{
		db: pool,
	}
}

func NewPostgresWithTx(tx pgx.Tx) port.Storage {
	return &postgresStorage{
		db: tx,
	}
}

func (r *postgresStorage) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is empty")
	}

	var value string

	err := r.db.QueryRow(ctx, getValueQuery, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", port.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("db.QueryRow: %w", err)
	}

	return value, nil
}

func (r *postgresStorage) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := r.db.Exec(ctx, setValueQuery, key, value); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (r *postgresStorage) Remove(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := r.db.Exec(ctx, removeValueQuery, key); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}
