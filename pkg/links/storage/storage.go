// Package storage provides the storage.* link handlers, persisting entries
// through a ports.EntryStore.
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/muunkky/hottopoteto/pkg/domain"
	"github.com/muunkky/hottopoteto/pkg/registry"
)

// Register installs the storage handlers (storage.save, storage.get,
// storage.list, storage.delete) backed by store.
func Register(reg *registry.Registry, store EntryStore) error {
	handlers := map[string]registry.Handler{
		"storage.save":   &SaveHandler{Store: store},
		"storage.get":    &GetHandler{Store: store},
		"storage.list":   &ListHandler{Store: store},
		"storage.delete": &DeleteHandler{Store: store},
	}
	for name, h := range handlers {
		if err := reg.Register(name, h); err != nil {
			return err
		}
	}
	return nil
}

// EntryStore is the subset of ports.EntryStore the handlers need. Declared
// locally so this package does not pull the full ports surface.
type EntryStore interface {
	Save(ctx context.Context, entry *domain.Entry) error
	Get(ctx context.Context, collection, id string) (*domain.Entry, error)
	List(ctx context.Context, collection string) ([]*domain.Entry, error)
	Delete(ctx context.Context, collection, id string) error
}

func collectionFrom(config map[string]any) (string, error) {
	collection := cast.ToString(config["collection"])
	if collection == "" {
		return "", fmt.Errorf("storage link requires a %q field", "collection")
	}
	return collection, nil
}

// SaveHandler writes one entry. Without an "id" field a new UUID is assigned.
type SaveHandler struct {
	Store EntryStore
}

func (h *SaveHandler) Execute(ctx context.Context, config map[string]any, state *domain.State) (any, error) {
	collection, err := collectionFrom(config)
	if err != nil {
		return nil, err
	}
	data, _ := config["data"].(map[string]any)
	if data == nil {
		return nil, fmt.Errorf("storage.save requires a %q object", "data")
	}

	id := cast.ToString(config["id"])
	if id == "" {
		id = uuid.NewString()
	}
	entry := &domain.Entry{
		ID:         id,
		Collection: collection,
		Data:       data,
		Tags:       cast.ToStringSlice(config["tags"]),
	}
	if err := h.Store.Save(ctx, entry); err != nil {
		return nil, err
	}
	return map[string]any{"id": id, "collection": collection}, nil
}

func (h *SaveHandler) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"id", "collection"},
	}
}

// GetHandler fetches one entry by collection and id.
type GetHandler struct {
	Store EntryStore
}

func (h *GetHandler) Execute(ctx context.Context, config map[string]any, state *domain.State) (any, error) {
	collection, err := collectionFrom(config)
	if err != nil {
		return nil, err
	}
	id := cast.ToString(config["id"])
	if id == "" {
		return nil, fmt.Errorf("storage.get requires an %q field", "id")
	}

	entry, err := h.Store.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	return entryMap(entry), nil
}

func (h *GetHandler) Schema() map[string]any { return nil }

// ListHandler returns every entry in a collection.
type ListHandler struct {
	Store EntryStore
}

func (h *ListHandler) Execute(ctx context.Context, config map[string]any, state *domain.State) (any, error) {
	collection, err := collectionFrom(config)
	if err != nil {
		return nil, err
	}

	entries, err := h.Store.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	items := make([]any, len(entries))
	for i, entry := range entries {
		items[i] = entryMap(entry)
	}
	return map[string]any{"entries": items, "count": len(items)}, nil
}

func (h *ListHandler) Schema() map[string]any { return nil }

// DeleteHandler removes one entry.
type DeleteHandler struct {
	Store EntryStore
}

func (h *DeleteHandler) Execute(ctx context.Context, config map[string]any, state *domain.State) (any, error) {
	collection, err := collectionFrom(config)
	if err != nil {
		return nil, err
	}
	id := cast.ToString(config["id"])
	if id == "" {
		return nil, fmt.Errorf("storage.delete requires an %q field", "id")
	}

	if err := h.Store.Delete(ctx, collection, id); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": true, "id": id}, nil
}

func (h *DeleteHandler) Schema() map[string]any { return nil }

func entryMap(entry *domain.Entry) map[string]any {
	return map[string]any{
		"id":         entry.ID,
		"collection": entry.Collection,
		"data":       entry.Data,
		"tags":       entry.Tags,
		"created_at": entry.CreatedAt,
		"updated_at": entry.UpdatedAt,
	}
}
