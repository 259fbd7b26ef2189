// Package core provides the built-in link handlers every engine instance
// registers: template, function and user_input.
package core

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/term"

	"github.com/muunkky/hottopoteto/pkg/domain"
	"github.com/muunkky/hottopoteto/pkg/registry"
)

// Register installs the core handlers on reg. funcs backs the function link
// and may be nil when no functions are exposed.
func Register(reg *registry.Registry, funcs *registry.FunctionRegistry) error {
	handlers := map[string]registry.Handler{
		"template":   &TemplateHandler{},
		"function":   &FunctionHandler{Funcs: funcs},
		"user_input": NewUserInputHandler(os.Stdin, os.Stderr),
	}
	for name, h := range handlers {
		if err := reg.Register(name, h); err != nil {
			return err
		}
	}
	return nil
}

// TemplateHandler renders its already resolved "template" config field. When
// the step names a conversation, the rendered text is appended as an
// assistant turn.
type TemplateHandler struct{}

func (h *TemplateHandler) Execute(ctx context.Context, config map[string]any, state *domain.State) (any, error) {
	tmpl, ok := config["template"]
	if !ok {
		return nil, fmt.Errorf("template link requires a %q field", "template")
	}

	if conv, _ := config["conversation"].(string); conv != "" && conv != domain.ConversationNone {
		state.AppendTurn(conv, domain.Turn{Role: "assistant", Content: cast.ToString(tmpl)})
	}
	return tmpl, nil
}

func (h *TemplateHandler) Schema() map[string]any { return nil }

// FunctionHandler invokes a registered function by name with the resolved
// "args" map.
type FunctionHandler struct {
	Funcs *registry.FunctionRegistry
}

func (h *FunctionHandler) Execute(ctx context.Context, config map[string]any, state *domain.State) (any, error) {
	name, _ := config["function"].(string)
	if name == "" {
		return nil, fmt.Errorf("function link requires a %q field", "function")
	}
	if h.Funcs == nil {
		return nil, fmt.Errorf("no functions registered")
	}

	args, _ := config["args"].(map[string]any)
	return h.Funcs.Call(ctx, name, args)
}

func (h *FunctionHandler) Schema() map[string]any { return nil }

// UserInputHandler prompts on out and reads one line from in. With
// "secret": true and a real terminal on stdin, input is read without echo.
type UserInputHandler struct {
	in  io.Reader
	out io.Writer
}

// NewUserInputHandler creates a handler reading from in and prompting on out.
func NewUserInputHandler(in io.Reader, out io.Writer) *UserInputHandler {
	return &UserInputHandler{in: in, out: out}
}

func (h *UserInputHandler) Execute(ctx context.Context, config map[string]any, state *domain.State) (any, error) {
	prompt, _ := config["prompt"].(string)
	if prompt == "" {
		prompt = "input"
	}
	fmt.Fprintf(h.out, "%s: ", prompt)

	var (
		value string
		err   error
	)
	secret, _ := config["secret"].(bool)
	if secret {
		value, err = h.readSecret()
	} else {
		value, err = h.readLine()
	}
	def, hasDefault := config["default"]
	if err != nil {
		// Closed or exhausted stdin (piped runs, serve mode) falls back to
		// the declared default instead of aborting the step.
		if errors.Is(err, io.EOF) && hasDefault {
			return map[string]any{"value": def}, nil
		}
		return nil, fmt.Errorf("read input: %w", err)
	}

	value = strings.TrimSpace(value)
	if value == "" && hasDefault {
		return map[string]any{"value": def}, nil
	}

	if conv, _ := config["conversation"].(string); conv != "" && conv != domain.ConversationNone && !secret {
		state.AppendTurn(conv, domain.Turn{Role: "user", Content: value})
	}
	return map[string]any{"value": value}, nil
}

func (h *UserInputHandler) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"value"},
	}
}

func (h *UserInputHandler) readLine() (string, error) {
	line, err := bufio.NewReader(h.in).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

func (h *UserInputHandler) readSecret() (string, error) {
	if f, ok := h.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(h.out)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	// Not a terminal (tests, pipes): fall back to a plain line read.
	return h.readLine()
}
