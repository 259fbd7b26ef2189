// Package redis provides a Redis-backed entry store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

// Store implements ports.EntryStore on Redis. Entries live under
// <prefix><collection>:<id>; each collection keeps a SET of its IDs for
// listing.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option customizes a Store.
type Option func(*Store)

// WithTTL sets an expiration on saved entries. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for entries.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis entry store connecting to address.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "hottopoteto:entry:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) entryKey(collection, id string) string {
	return s.prefix + collection + ":" + id
}

func (s *Store) indexKey(collection string) string {
	return s.prefix + "index:" + collection
}

// Save persists the entry and records its ID in the collection index.
func (s *Store) Save(ctx context.Context, entry *domain.Entry) error {
	if entry.ID == "" || entry.Collection == "" {
		return fmt.Errorf("entry needs both an ID and a collection")
	}

	stored := *entry
	now := time.Now().UTC()
	if prev, err := s.Get(ctx, entry.Collection, entry.ID); err == nil {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.entryKey(entry.Collection, entry.ID), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(entry.Collection), entry.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get retrieves one entry.
func (s *Store) Get(ctx context.Context, collection, id string) (*domain.Entry, error) {
	val, err := s.client.Get(ctx, s.entryKey(collection, id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrEntryNotFound)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var entry domain.Entry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return &entry, nil
}

// List returns every entry in a collection. Index members whose entry key
// expired are pruned lazily.
func (s *Store) List(ctx context.Context, collection string) ([]*domain.Entry, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list collection: %w", err)
	}

	entries := make([]*domain.Entry, 0, len(ids))
	for _, id := range ids {
		entry, err := s.Get(ctx, collection, id)
		if err != nil {
			if errors.Is(err, domain.ErrEntryNotFound) {
				_ = s.client.SRem(ctx, s.indexKey(collection), id).Err()
				continue
			}
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Delete removes one entry and its index membership.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	deleted, err := s.client.Del(ctx, s.entryKey(collection, id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrEntryNotFound)
	}
	return s.client.SRem(ctx, s.indexKey(collection), id).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
