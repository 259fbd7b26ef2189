// Package postgres provides a PostgreSQL-backed entry store over pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

// Store implements ports.EntryStore on a single "entries" table with JSONB
// payloads.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to dsn, verifies the connection and ensures the entries table
// exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	store := &Store{pool: pool}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// NewFromPool creates a Store from an existing pool and ensures the entries
// table exists.
func NewFromPool(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	store := &Store{pool: pool}
	if err := store.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS entries (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			data       JSONB NOT NULL DEFAULT '{}',
			tags       TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (collection, id)
		)
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure entries table: %w", err)
	}
	return nil
}

// Save upserts an entry, preserving created_at on conflict.
func (s *Store) Save(ctx context.Context, entry *domain.Entry) error {
	if entry.ID == "" || entry.Collection == "" {
		return fmt.Errorf("entry needs both an ID and a collection")
	}

	data, err := json.Marshal(entry.Data)
	if err != nil {
		return fmt.Errorf("marshal entry data: %w", err)
	}

	query := `
		INSERT INTO entries (collection, id, data, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (collection, id) DO UPDATE
		SET data = EXCLUDED.data, tags = EXCLUDED.tags, updated_at = EXCLUDED.updated_at
	`
	tags := entry.Tags
	if tags == nil {
		tags = []string{}
	}
	if _, err := s.pool.Exec(ctx, query, entry.Collection, entry.ID, data, tags, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}

// Get retrieves one entry.
func (s *Store) Get(ctx context.Context, collection, id string) (*domain.Entry, error) {
	query := `
		SELECT data, tags, created_at, updated_at
		FROM entries
		WHERE collection = $1 AND id = $2
	`
	entry := &domain.Entry{ID: id, Collection: collection}
	var data []byte
	err := s.pool.QueryRow(ctx, query, collection, id).Scan(&data, &entry.Tags, &entry.CreatedAt, &entry.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrEntryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if err := json.Unmarshal(data, &entry.Data); err != nil {
		return nil, fmt.Errorf("unmarshal entry data: %w", err)
	}
	return entry, nil
}

// List returns every entry in a collection.
func (s *Store) List(ctx context.Context, collection string) ([]*domain.Entry, error) {
	query := `
		SELECT id, data, tags, created_at, updated_at
		FROM entries
		WHERE collection = $1
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.Entry, 0)
	for rows.Next() {
		entry := &domain.Entry{Collection: collection}
		var data []byte
		if err := rows.Scan(&entry.ID, &data, &entry.Tags, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if err := json.Unmarshal(data, &entry.Data); err != nil {
			return nil, fmt.Errorf("unmarshal entry data: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes one entry.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM entries WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrEntryNotFound)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
