package schema

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveRef(t *testing.T) {
	reg := NewRegistry()
	reg.Register("person", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
		"required": []any{"name"},
	})
	r := NewResolver(reg)

	resolved, err := r.Resolve(map[string]any{"$ref": "person"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved["type"] != "object" {
		t.Fatalf("got %v", resolved["type"])
	}
	props := resolved["properties"].(map[string]any)
	if _, ok := props["name"]; !ok {
		t.Fatal("expected name property")
	}
}

func TestResolveRefNotFound(t *testing.T) {
	r := NewResolver(NewRegistry())

	_, err := r.Resolve(map[string]any{"$ref": "ghost"})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %T, want *NotFoundError", err)
	}
	if nf.Name != "ghost" {
		t.Fatalf("name %q", nf.Name)
	}
}

func TestResolveNestedRefs(t *testing.T) {
	reg := NewRegistry()
	reg.Register("address", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{"type": "string"},
		},
	})
	reg.Register("person", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"home":    map[string]any{"$ref": "address"},
			"history": map[string]any{"type": "array", "items": map[string]any{"$ref": "address"}},
		},
	})
	r := NewResolver(reg)

	resolved, err := r.Resolve(map[string]any{"$ref": "person"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props := resolved["properties"].(map[string]any)
	home := props["home"].(map[string]any)
	if home["type"] != "object" {
		t.Fatalf("home not expanded: %v", home)
	}
	items := props["history"].(map[string]any)["items"].(map[string]any)
	if items["type"] != "object" {
		t.Fatalf("items not expanded: %v", items)
	}
}

func TestResolveCycleBounded(t *testing.T) {
	reg := NewRegistry()
	reg.Register("a", map[string]any{"$ref": "b"})
	reg.Register("b", map[string]any{"$ref": "a"})
	r := NewResolver(reg)

	_, err := r.Resolve(map[string]any{"$ref": "a"})
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("message %q", err.Error())
	}
}

func TestResolveBaseMerge(t *testing.T) {
	reg := NewRegistry()
	reg.Register("entity", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":   map[string]any{"type": "string"},
			"kind": map[string]any{"type": "string"},
		},
		"required": []any{"id"},
	})
	r := NewResolver(reg)

	resolved, err := r.Resolve(map[string]any{
		"base": "entity",
		"properties": map[string]any{
			"kind":  map[string]any{"type": "string", "enum": []any{"user", "bot"}},
			"email": map[string]any{"type": "string"},
		},
		"required": []any{"email"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	props := resolved["properties"].(map[string]any)
	if len(props) != 3 {
		t.Fatalf("got %d properties, want 3", len(props))
	}

	// Local definitions win over the base per key.
	kind := props["kind"].(map[string]any)
	if _, ok := kind["enum"]; !ok {
		t.Fatal("local kind definition should override the base")
	}

	// Required lists union, base entries first.
	required := resolved["required"].([]any)
	if len(required) != 2 || required[0] != "id" || required[1] != "email" {
		t.Fatalf("required %v", required)
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	reg := NewRegistry()
	reg.Register("thing", map[string]any{"type": "object"})
	r := NewResolver(reg)

	input := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"item": map[string]any{"$ref": "thing"},
		},
	}
	if _, err := r.Resolve(input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item := input["properties"].(map[string]any)["item"].(map[string]any)
	if _, stillRef := item["$ref"]; !stillRef {
		t.Fatal("input schema was mutated")
	}
}

func TestRegistryLastWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register("v", map[string]any{"type": "string"})
	reg.Register("v", map[string]any{"type": "integer"})

	def, err := reg.Lookup("v")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def["type"] != "integer" {
		t.Fatalf("got %v", def["type"])
	}
}
