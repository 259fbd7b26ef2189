package hottopoteto

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/muunkky/hottopoteto/internal/compiler"
	"github.com/muunkky/hottopoteto/internal/logging"
	"github.com/muunkky/hottopoteto/internal/runtime"
	"github.com/muunkky/hottopoteto/pkg/adapters/file"
	"github.com/muunkky/hottopoteto/pkg/adapters/memory"
	"github.com/muunkky/hottopoteto/pkg/domain"
	corelinks "github.com/muunkky/hottopoteto/pkg/links/core"
	storagelinks "github.com/muunkky/hottopoteto/pkg/links/storage"
	"github.com/muunkky/hottopoteto/pkg/ports"
	"github.com/muunkky/hottopoteto/pkg/registry"
	"github.com/muunkky/hottopoteto/pkg/schema"
	"github.com/muunkky/hottopoteto/pkg/template"
)

// Engine is the high-level entry point for the library. It wires the
// compiler, registries and executor together and provides a simplified API
// for consumers.
type Engine struct {
	loader    ports.RecipeLoader
	store     ports.EntryStore
	registry  *registry.Registry
	functions *registry.FunctionRegistry
	schemas   *schema.Registry
	logger    *slog.Logger
	hooks     domain.LifecycleHooks

	templateOpts []template.Option
	executorOpts []runtime.Option

	compiler *compiler.Compiler
	executor *runtime.Executor
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom RecipeLoader, bypassing the default filesystem
// loader.
func WithLoader(l ports.RecipeLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithEntryStore sets the store backing the storage.* link types. Defaults to
// an in-memory store.
func WithEntryStore(s ports.EntryStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithFunction exposes a named function to function link steps.
func WithFunction(name string, fn registry.Function) Option {
	return func(e *Engine) {
		e.functions.Register(name, fn)
	}
}

// WithSchema registers a named schema for $ref, base and _validate_against
// references.
func WithSchema(name string, def map[string]any) Option {
	return func(e *Engine) {
		e.schemas.Register(name, def)
	}
}

// WithTemplateFunc adds a custom placeholder function usable in {{ ... }}
// expressions.
func WithTemplateFunc(name string, fn template.Func) Option {
	return func(e *Engine) {
		e.templateOpts = append(e.templateOpts, template.WithFunc(name, fn))
	}
}

// WithDefaultTimeout bounds every step that does not declare its own timeout.
func WithDefaultTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.executorOpts = append(e.executorOpts, runtime.WithDefaultTimeout(d))
	}
}

// WithMaxConversationTurns overrides the conversation pruning bound.
func WithMaxConversationTurns(n int) Option {
	return func(e *Engine) {
		e.executorOpts = append(e.executorOpts, runtime.WithMaxConversationTurns(n))
	}
}

// WithSkippedSatisfyingRequired makes skipped step records satisfy required
// entries of a master output schema.
func WithSkippedSatisfyingRequired() Option {
	return func(e *Engine) {
		e.executorOpts = append(e.executorOpts, runtime.WithSkippedSatisfyingRequired())
	}
}

// New initializes an Engine reading recipes from recipesPath. The path may be
// empty when WithLoader supplies a custom source. Built-in link handlers
// (template, function, user_input, storage.*) are registered before any
// plugin handlers added via RegisterHandler; the registry freezes at the
// first run.
func New(recipesPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		registry:  registry.NewRegistry(),
		functions: registry.NewFunctionRegistry(),
		schemas:   schema.NewRegistry(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if recipesPath == "" {
			return nil, fmt.Errorf("recipesPath is required when no custom loader is provided")
		}
		eng.loader = file.NewLoader(recipesPath)
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if err := corelinks.Register(eng.registry, eng.functions); err != nil {
		return nil, err
	}
	if err := storagelinks.Register(eng.registry, eng.store); err != nil {
		return nil, err
	}

	eng.compiler = compiler.New(eng.loader, eng.logger)

	executorOpts := []runtime.Option{
		runtime.WithLogger(eng.logger),
		runtime.WithHooks(eng.hooks),
		runtime.WithTemplateResolver(template.NewResolver(eng.templateOpts...)),
	}
	executorOpts = append(executorOpts, eng.executorOpts...)
	eng.executor = runtime.NewExecutor(eng.registry, schema.NewResolver(eng.schemas), executorOpts...)

	return eng, nil
}

// RegisterHandler adds a plugin link handler. Must be called before the first
// run; afterwards the registry is frozen and registration fails.
func (e *Engine) RegisterHandler(linkType string, h registry.Handler) error {
	return e.registry.Register(linkType, h)
}

// RegisterFunction exposes a named function to function link steps.
func (e *Engine) RegisterFunction(name string, fn registry.Function) {
	e.functions.Register(name, fn)
}

// RegisterSchema adds a named schema to the schema registry.
func (e *Engine) RegisterSchema(name string, def map[string]any) {
	e.schemas.Register(name, def)
}

// Run compiles the named recipe and executes it. inputs are seeded into the
// __global namespace.
func (e *Engine) Run(ctx context.Context, name string, inputs map[string]any) (*domain.Result, error) {
	recipe, err := e.compiler.Compile(name)
	if err != nil {
		return nil, err
	}
	return e.executor.Run(ctx, recipe, inputs)
}

// RunBytes compiles and executes an in-hand recipe document. Composition
// references still resolve through the engine's loader.
func (e *Engine) RunBytes(ctx context.Context, source string, data []byte, inputs map[string]any) (*domain.Result, error) {
	recipe, err := e.compiler.CompileBytes(source, data)
	if err != nil {
		return nil, err
	}
	return e.executor.Run(ctx, recipe, inputs)
}

// Compile loads, composes and validates the named recipe without running it.
func (e *Engine) Compile(name string) (*domain.Recipe, error) {
	return e.compiler.Compile(name)
}

// LinkTypes lists the registered link types in sorted order.
func (e *Engine) LinkTypes() []string {
	return e.registry.Types()
}

// Functions lists the registered function names in sorted order.
func (e *Engine) Functions() []string {
	return e.functions.Names()
}

// Loader returns the engine's recipe source.
func (e *Engine) Loader() ports.RecipeLoader {
	return e.loader
}
