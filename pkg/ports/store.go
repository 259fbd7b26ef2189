package ports

import (
	"context"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

// EntryStore persists entries written by the storage link types. Collections
// are created implicitly on first save.
//
// Implementations must return domain.ErrEntryNotFound (possibly wrapped) when
// a requested entry does not exist.
type EntryStore interface {
	// Save writes an entry, overwriting any entry with the same ID in the
	// same collection. Implementations set UpdatedAt, and CreatedAt on
	// first save.
	Save(ctx context.Context, entry *domain.Entry) error

	// Get retrieves one entry by collection and ID.
	Get(ctx context.Context, collection, id string) (*domain.Entry, error)

	// List returns all entries in a collection, order unspecified. A
	// missing collection yields an empty slice, not an error.
	List(ctx context.Context, collection string) ([]*domain.Entry, error)

	// Delete removes one entry. Deleting a missing entry returns
	// domain.ErrEntryNotFound.
	Delete(ctx context.Context, collection, id string) error

	// Close releases any underlying resources.
	Close() error
}
