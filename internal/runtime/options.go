package runtime

import (
	"log/slog"
	"time"

	"github.com/muunkky/hottopoteto/pkg/domain"
	"github.com/muunkky/hottopoteto/pkg/template"
)

// DefaultMaxConversationTurns bounds conversation growth within one run. The
// first turn (usually the system message) always survives pruning.
const DefaultMaxConversationTurns = 15

// Option customizes an Executor.
type Option func(*Executor)

// WithLogger sets the executor's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks installs lifecycle callbacks for run and step events.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Executor) {
		e.hooks = hooks
	}
}

// WithTemplateResolver replaces the default template resolver, e.g. to add
// custom placeholder functions.
func WithTemplateResolver(r *template.Resolver) Option {
	return func(e *Executor) {
		if r != nil {
			e.templates = r
		}
	}
}

// WithDefaultTimeout bounds every step that does not declare its own
// timeout. Zero means unbounded.
func WithDefaultTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.defaultTimeout = d
	}
}

// WithMaxConversationTurns overrides the conversation pruning bound. Zero or
// negative disables pruning.
func WithMaxConversationTurns(n int) Option {
	return func(e *Executor) {
		e.maxConversationTurns = n
	}
}

// WithSkippedSatisfyingRequired makes skipped step records count as present
// for master output schema required checks. By default a skipped step does
// not satisfy a required entry.
func WithSkippedSatisfyingRequired() Option {
	return func(e *Executor) {
		e.skippedSatisfiesRequired = true
	}
}
