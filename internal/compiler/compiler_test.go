package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/muunkky/hottopoteto/pkg/adapters/memory"
	"github.com/muunkky/hottopoteto/pkg/domain"
)

func TestCompileSimpleRecipe(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"greet": `
name: greet
description: says hello
version: "1.2"
links:
  - name: Say_Hello
    type: template
    template: "hello {{ __global.who }}"
  - name: Check
    type: function
    condition: "{{ Say_Hello.success }}"
    function: noop
`,
	})
	c := New(loader, nil)

	recipe, err := c.Compile("greet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recipe.Name != "greet" || recipe.Version != "1.2" {
		t.Fatalf("recipe %+v", recipe)
	}
	if recipe.Domain != domain.DefaultDomain {
		t.Fatalf("domain %q", recipe.Domain)
	}
	if len(recipe.Steps) != 2 {
		t.Fatalf("got %d steps", len(recipe.Steps))
	}

	first := recipe.Steps[0]
	if first.Name != "Say_Hello" || first.Type != "template" {
		t.Fatalf("step %+v", first)
	}
	// Handler-specific fields land in Config.
	if first.Config["template"] != "hello {{ __global.who }}" {
		t.Fatalf("config %v", first.Config)
	}
	if recipe.Steps[1].Condition == "" {
		t.Fatal("condition not decoded")
	}
}

func TestCompileUnknownRecipe(t *testing.T) {
	c := New(memory.NewLoader(nil), nil)

	_, err := c.Compile("missing")
	var loadErr *domain.RecipeLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("got %T, want *RecipeLoadError", err)
	}
	if !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Fatalf("should wrap ErrRecipeNotFound: %v", err)
	}
}

func TestCompileMalformedDocument(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"broken": "links: [unclosed",
	})
	c := New(loader, nil)

	_, err := c.Compile("broken")
	var loadErr *domain.RecipeLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("got %T, want *RecipeLoadError", err)
	}
}

func TestCompileExtendsAndIncludes(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"base": `
name: base
links:
  - name: Setup
    type: template
    template: "setup"
  - name: Report
    type: template
    template: "base report"
`,
		"shared": `
name: shared
links:
  - name: Notify
    type: template
    template: "notify"
`,
		"child": `
name: child
extends: base
includes: [shared]
links:
  - name: Report
    type: template
    template: "child report"
  - name: Wrap_Up
    type: template
    template: "done"
`,
	})
	c := New(loader, nil)

	recipe, err := c.Compile("child")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var order []string
	for _, step := range recipe.Steps {
		order = append(order, step.Name)
	}
	want := []string{"Setup", "Report", "Notify", "Wrap_Up"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Fatalf("order %v, want %v", order, want)
	}

	// The child's Report overrides the parent's at the parent's position.
	for _, step := range recipe.Steps {
		if step.Name == "Report" && step.Config["template"] != "child report" {
			t.Fatalf("override lost: %v", step.Config)
		}
	}

	if recipe.Extends != "" || recipe.Includes != nil {
		t.Fatal("composition references should be cleared on the result")
	}
}

func TestCompileCompositionCycle(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"a": "name: a\nextends: b\nlinks: []\n",
		"b": "name: b\nextends: a\nlinks: []\n",
	})
	c := New(loader, nil)

	_, err := c.Compile("a")
	var loadErr *domain.RecipeLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("got %T, want *RecipeLoadError", err)
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("message %q", err.Error())
	}
}

func TestValidationCollectsAllProblems(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"bad": `
name: bad
links:
  - name: Dup
    type: template
  - name: Dup
    type: template
  - name: __reserved
    type: template
  - name: No_Type
  - name: Slow
    type: template
    timeout: "not-a-duration"
`,
	})
	c := New(loader, nil)

	_, err := c.Compile("bad")
	var valErr *domain.RecipeValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("got %T, want *RecipeValidationError", err)
	}
	if len(valErr.Problems) != 4 {
		t.Fatalf("got %d problems, want 4: %v", len(valErr.Problems), valErr.Problems)
	}
	msg := err.Error()
	for _, want := range []string{"duplicate", "reserved", "missing type", "timeout"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestCompileBytes(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"base": "name: base\nlinks:\n  - name: Setup\n    type: template\n",
	})
	c := New(loader, nil)

	recipe, err := c.CompileBytes("inline", []byte("name: inline\nextends: base\nlinks:\n  - name: Extra\n    type: template\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recipe.Steps) != 2 || recipe.Steps[0].Name != "Setup" {
		t.Fatalf("steps %+v", recipe.Steps)
	}
}
