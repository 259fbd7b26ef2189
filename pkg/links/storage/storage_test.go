package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/muunkky/hottopoteto/pkg/adapters/memory"
	"github.com/muunkky/hottopoteto/pkg/domain"
	"github.com/muunkky/hottopoteto/pkg/registry"
)

func TestSaveAndGetRoundTrip(t *testing.T) {
	store := memory.NewStore()
	save := &SaveHandler{Store: store}
	get := &GetHandler{Store: store}
	state := domain.NewState()

	out, err := save.Execute(context.Background(), map[string]any{
		"collection": "notes",
		"id":         "n1",
		"data":       map[string]any{"text": "remember"},
		"tags":       []any{"todo"},
	}, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(map[string]any)["id"] != "n1" {
		t.Fatalf("save output %v", out)
	}

	fetched, err := get.Execute(context.Background(), map[string]any{
		"collection": "notes",
		"id":         "n1",
	}, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry := fetched.(map[string]any)
	if entry["data"].(map[string]any)["text"] != "remember" {
		t.Fatalf("entry %v", entry)
	}
}

func TestSaveGeneratesID(t *testing.T) {
	save := &SaveHandler{Store: memory.NewStore()}

	out, err := save.Execute(context.Background(), map[string]any{
		"collection": "notes",
		"data":       map[string]any{"text": "x"},
	}, domain.NewState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(map[string]any)["id"] == "" {
		t.Fatal("expected generated id")
	}
}

func TestSaveRequiresCollectionAndData(t *testing.T) {
	save := &SaveHandler{Store: memory.NewStore()}

	if _, err := save.Execute(context.Background(), map[string]any{"data": map[string]any{}}, domain.NewState()); err == nil {
		t.Fatal("expected error without collection")
	}
	if _, err := save.Execute(context.Background(), map[string]any{"collection": "c"}, domain.NewState()); err == nil {
		t.Fatal("expected error without data")
	}
}

func TestGetUnknownEntry(t *testing.T) {
	get := &GetHandler{Store: memory.NewStore()}

	_, err := get.Execute(context.Background(), map[string]any{
		"collection": "notes",
		"id":         "ghost",
	}, domain.NewState())
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("got %v, want ErrEntryNotFound", err)
	}
}

func TestListAndDelete(t *testing.T) {
	store := memory.NewStore()
	save := &SaveHandler{Store: store}
	list := &ListHandler{Store: store}
	del := &DeleteHandler{Store: store}
	state := domain.NewState()

	for _, id := range []string{"a", "b"} {
		if _, err := save.Execute(context.Background(), map[string]any{
			"collection": "items",
			"id":         id,
			"data":       map[string]any{"id": id},
		}, state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	out, err := list.Execute(context.Background(), map[string]any{"collection": "items"}, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(map[string]any)["count"] != 2 {
		t.Fatalf("list output %v", out)
	}

	if _, err := del.Execute(context.Background(), map[string]any{
		"collection": "items",
		"id":         "a",
	}, state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, _ = list.Execute(context.Background(), map[string]any{"collection": "items"}, state)
	if out.(map[string]any)["count"] != 1 {
		t.Fatalf("after delete %v", out)
	}
}

func TestRegisterInstallsStorageTypes(t *testing.T) {
	reg := registry.NewRegistry()
	if err := Register(reg, memory.NewStore()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, typ := range []string{"storage.save", "storage.get", "storage.list", "storage.delete"} {
		if _, err := reg.Lookup(typ); err != nil {
			t.Errorf("missing handler %q: %v", typ, err)
		}
	}
}
