package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

// RunEntryStoreContract verifies that an EntryStore implementation adheres to
// the interface contract. Adapter test suites call this against a fresh
// store.
func RunEntryStoreContract(t *testing.T, store EntryStore) {
	ctx := context.Background()
	collection := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Get", func(t *testing.T) {
		entry := &domain.Entry{
			ID:         "e1",
			Collection: collection,
			Data:       map[string]any{"title": "first", "rank": float64(1)},
			Tags:       []string{"a", "b"},
		}
		require.NoError(t, store.Save(ctx, entry))

		loaded, err := store.Get(ctx, collection, "e1")
		require.NoError(t, err)
		assert.Equal(t, "e1", loaded.ID)
		assert.Equal(t, collection, loaded.Collection)
		assert.Equal(t, "first", loaded.Data["title"])
		assert.ElementsMatch(t, []string{"a", "b"}, loaded.Tags)
		assert.False(t, loaded.CreatedAt.IsZero(), "Save should stamp CreatedAt")
	})

	t.Run("Save overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &domain.Entry{
			ID:         "e1",
			Collection: collection,
			Data:       map[string]any{"title": "second"},
		}))

		loaded, err := store.Get(ctx, collection, "e1")
		require.NoError(t, err)
		assert.Equal(t, "second", loaded.Data["title"])
	})

	t.Run("Get non-existent", func(t *testing.T) {
		_, err := store.Get(ctx, collection, "ghost")
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	})

	t.Run("List", func(t *testing.T) {
		other := collection + "-list"
		for _, id := range []string{"l1", "l2"} {
			require.NoError(t, store.Save(ctx, &domain.Entry{
				ID:         id,
				Collection: other,
				Data:       map[string]any{"id": id},
			}))
		}
		defer func() {
			_ = store.Delete(ctx, other, "l1")
			_ = store.Delete(ctx, other, "l2")
		}()

		entries, err := store.List(ctx, other)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		ids := []string{entries[0].ID, entries[1].ID}
		assert.ElementsMatch(t, []string{"l1", "l2"}, ids)
	})

	t.Run("List empty collection", func(t *testing.T) {
		entries, err := store.List(ctx, collection+"-empty")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &domain.Entry{
			ID:         "d1",
			Collection: collection,
			Data:       map[string]any{},
		}))
		require.NoError(t, store.Delete(ctx, collection, "d1"))

		_, err := store.Get(ctx, collection, "d1")
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)

		assert.ErrorIs(t, store.Delete(ctx, collection, "d1"), domain.ErrEntryNotFound)
	})
}
