package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

func echoHandler(result any) Handler {
	return HandlerFunc(func(ctx context.Context, config map[string]any, state *domain.State) (any, error) {
		return result, nil
	})
}

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("echo", echoHandler("hi")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, err := r.Lookup("echo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := h.Execute(context.Background(), nil, domain.NewState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hi" {
		t.Fatalf("got %v", got)
	}
}

func TestLookupUnknownType(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("nonexistent")
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("got %T, want *UnknownTypeError", err)
	}
	if unknown.Type != "nonexistent" {
		t.Fatalf("type %q", unknown.Type)
	}
}

func TestRegisterLastWins(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("echo", echoHandler("first")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register("echo", echoHandler("second")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, err := r.Lookup("echo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := h.Execute(context.Background(), nil, domain.NewState())
	if got != "second" {
		t.Fatalf("got %v, want the later registration", got)
	}
}

func TestFreezeBlocksRegistration(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("echo", echoHandler("hi")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.Freeze()
	if !r.Frozen() {
		t.Fatal("expected frozen registry")
	}

	if err := r.Register("late", echoHandler("no")); err == nil {
		t.Fatal("expected registration after freeze to fail")
	}

	// Lookups still work after freezing.
	if _, err := r.Lookup("echo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Freezing again is harmless.
	r.Freeze()
}

func TestTypesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(name, echoHandler(nil)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	types := r.Types()
	want := []string{"alpha", "mid", "zeta"}
	if len(types) != len(want) {
		t.Fatalf("got %v", types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("got %v, want %v", types, want)
		}
	}
}

func TestFunctionRegistry(t *testing.T) {
	fr := NewFunctionRegistry()
	fr.Register("double", func(ctx context.Context, args map[string]any) (any, error) {
		n, _ := args["n"].(int)
		return n * 2, nil
	})

	got, err := fr.Call(context.Background(), "double", map[string]any{"n": 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 8 {
		t.Fatalf("got %v", got)
	}

	if _, err := fr.Call(context.Background(), "missing", nil); err == nil {
		t.Fatal("expected error for unknown function")
	}
}
