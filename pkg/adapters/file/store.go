// Package file provides filesystem-backed adapters: an entry store writing
// JSON documents and a recipe loader reading YAML/JSON recipe files.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

// Store implements ports.EntryStore on the local filesystem. Each entry is
// one JSON file under <base>/<collection>/<id>.json.
type Store struct {
	BasePath string
}

// NewStore creates a Store rooted at basePath. An empty basePath defaults to
// ".hottopoteto/entries".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".hottopoteto", "entries")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) entryPath(collection, id string) string {
	return filepath.Join(s.BasePath, collection, id+".json")
}

// Save writes the entry atomically: temp file in the same directory, fsync,
// then rename over the destination.
func (s *Store) Save(ctx context.Context, entry *domain.Entry) error {
	if entry.ID == "" || entry.Collection == "" {
		return fmt.Errorf("entry needs both an ID and a collection")
	}

	dir := filepath.Join(s.BasePath, entry.Collection)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure collection directory: %w", err)
	}

	stored := *entry
	now := time.Now().UTC()
	if prev, err := s.Get(ctx, entry.Collection, entry.ID); err == nil {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	data, err := json.MarshalIndent(&stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "tmp-"+entry.ID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	dest := s.entryPath(entry.Collection, entry.ID)
	// Windows cannot rename over an existing file.
	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("failed to replace existing entry: %w", err)
		}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Get reads one entry.
func (s *Store) Get(ctx context.Context, collection, id string) (*domain.Entry, error) {
	data, err := os.ReadFile(s.entryPath(collection, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrEntryNotFound)
		}
		return nil, fmt.Errorf("failed to read entry: %w", err)
	}

	var entry domain.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return &entry, nil
}

// List reads every entry in a collection directory.
func (s *Store) List(ctx context.Context, collection string) ([]*domain.Entry, error) {
	dir := filepath.Join(s.BasePath, collection)
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Entry{}, nil
		}
		return nil, fmt.Errorf("failed to list collection: %w", err)
	}

	entries := make([]*domain.Entry, 0, len(files))
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(f.Name(), ".json")
		entry, err := s.Get(ctx, collection, id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Delete removes one entry file.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	err := os.Remove(s.entryPath(collection, id))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrEntryNotFound)
		}
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// Close is a no-op for the filesystem store.
func (s *Store) Close() error { return nil }
