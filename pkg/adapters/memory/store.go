package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

// Store implements ports.EntryStore with process-local maps. Entries are
// copied on the way in and out, so callers cannot alias internal state.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]*domain.Entry
}

// NewStore creates an empty in-memory entry store.
func NewStore() *Store {
	return &Store{collections: make(map[string]map[string]*domain.Entry)}
}

// Save writes an entry, creating its collection on first use.
func (s *Store) Save(ctx context.Context, entry *domain.Entry) error {
	if entry.ID == "" || entry.Collection == "" {
		return fmt.Errorf("entry needs both an ID and a collection")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[entry.Collection]
	if !ok {
		coll = make(map[string]*domain.Entry)
		s.collections[entry.Collection] = coll
	}

	stored := copyEntry(entry)
	now := time.Now().UTC()
	if prev, exists := coll[entry.ID]; exists {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	coll[entry.ID] = stored
	return nil
}

// Get retrieves one entry by collection and ID.
func (s *Store) Get(ctx context.Context, collection, id string) (*domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrEntryNotFound)
	}
	return copyEntry(entry), nil
}

// List returns all entries in a collection.
func (s *Store) List(ctx context.Context, collection string) ([]*domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.collections[collection]
	entries := make([]*domain.Entry, 0, len(coll))
	for _, entry := range coll {
		entries = append(entries, copyEntry(entry))
	}
	return entries, nil
}

// Delete removes one entry.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrEntryNotFound)
	}
	delete(s.collections[collection], id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

func copyEntry(e *domain.Entry) *domain.Entry {
	out := *e
	out.Data = copyMap(e.Data)
	out.Tags = append([]string(nil), e.Tags...)
	return &out
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case map[string]any:
			out[k] = copyMap(val)
		case []any:
			items := make([]any, len(val))
			copy(items, val)
			out[k] = items
		default:
			out[k] = v
		}
	}
	return out
}
