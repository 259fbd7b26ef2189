package core

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/muunkky/hottopoteto/pkg/domain"
	"github.com/muunkky/hottopoteto/pkg/registry"
)

func TestTemplateHandler(t *testing.T) {
	h := &TemplateHandler{}

	got, err := h.Execute(context.Background(), map[string]any{"template": "Hello Ann"}, domain.NewState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello Ann" {
		t.Fatalf("got %v", got)
	}

	if _, err := h.Execute(context.Background(), map[string]any{}, domain.NewState()); err == nil {
		t.Fatal("expected error without template field")
	}
}

func TestTemplateHandlerAppendsConversation(t *testing.T) {
	h := &TemplateHandler{}
	state := domain.NewState()

	_, err := h.Execute(context.Background(), map[string]any{
		"template":     "the reply",
		"conversation": "main",
	}, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	turns := state.Conversation("main")
	if len(turns) != 1 || turns[0].Role != "assistant" || turns[0].Content != "the reply" {
		t.Fatalf("turns %+v", turns)
	}
}

func TestFunctionHandler(t *testing.T) {
	funcs := registry.NewFunctionRegistry()
	funcs.Register("sum", func(ctx context.Context, args map[string]any) (any, error) {
		a, _ := args["a"].(int)
		b, _ := args["b"].(int)
		return a + b, nil
	})
	h := &FunctionHandler{Funcs: funcs}

	got, err := h.Execute(context.Background(), map[string]any{
		"function": "sum",
		"args":     map[string]any{"a": 2, "b": 3},
	}, domain.NewState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5 {
		t.Fatalf("got %v", got)
	}

	if _, err := h.Execute(context.Background(), map[string]any{"function": "nope"}, domain.NewState()); err == nil {
		t.Fatal("expected error for unknown function")
	}
	if _, err := h.Execute(context.Background(), map[string]any{}, domain.NewState()); err == nil {
		t.Fatal("expected error without function field")
	}
}

func TestUserInputHandler(t *testing.T) {
	var out bytes.Buffer
	h := NewUserInputHandler(strings.NewReader("Ann\n"), &out)

	got, err := h.Execute(context.Background(), map[string]any{"prompt": "name"}, domain.NewState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := got.(map[string]any)
	if data["value"] != "Ann" {
		t.Fatalf("got %v", data)
	}
	if !strings.Contains(out.String(), "name:") {
		t.Fatalf("prompt not written: %q", out.String())
	}
}

func TestUserInputHandlerDefault(t *testing.T) {
	h := NewUserInputHandler(strings.NewReader("\n"), &bytes.Buffer{})

	got, err := h.Execute(context.Background(), map[string]any{
		"prompt":  "color",
		"default": "blue",
	}, domain.NewState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(map[string]any)["value"] != "blue" {
		t.Fatalf("got %v", got)
	}
}

func TestUserInputHandlerConversation(t *testing.T) {
	h := NewUserInputHandler(strings.NewReader("hello\n"), &bytes.Buffer{})
	state := domain.NewState()

	_, err := h.Execute(context.Background(), map[string]any{
		"prompt":       "say",
		"conversation": "main",
	}, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	turns := state.Conversation("main")
	if len(turns) != 1 || turns[0].Role != "user" {
		t.Fatalf("turns %+v", turns)
	}
}

func TestRegisterInstallsCoreTypes(t *testing.T) {
	reg := registry.NewRegistry()
	if err := Register(reg, registry.NewFunctionRegistry()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, typ := range []string{"template", "function", "user_input"} {
		if _, err := reg.Lookup(typ); err != nil {
			t.Errorf("missing handler %q: %v", typ, err)
		}
	}
}

func TestUserInputHandlerClosedStdin(t *testing.T) {
	// Empty reader delivers EOF immediately, as with `run < /dev/null` or
	// server mode.
	h := NewUserInputHandler(strings.NewReader(""), &bytes.Buffer{})

	got, err := h.Execute(context.Background(), map[string]any{
		"prompt":  "color",
		"default": "blue",
	}, domain.NewState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(map[string]any)["value"] != "blue" {
		t.Fatalf("got %v", got)
	}

	h = NewUserInputHandler(strings.NewReader(""), &bytes.Buffer{})
	if _, err := h.Execute(context.Background(), map[string]any{"prompt": "color"}, domain.NewState()); err == nil {
		t.Fatal("expected error without a default")
	}
}
