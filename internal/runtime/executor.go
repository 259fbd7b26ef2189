package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/muunkky/hottopoteto/internal/logging"
	"github.com/muunkky/hottopoteto/pkg/domain"
	"github.com/muunkky/hottopoteto/pkg/registry"
	"github.com/muunkky/hottopoteto/pkg/schema"
	"github.com/muunkky/hottopoteto/pkg/template"
)

// Executor runs composed recipes step by step against a fresh context.
// One Executor is safe to share across concurrent runs: the registry is
// frozen before the first dispatch and each run owns its own state.
type Executor struct {
	registry  *registry.Registry
	schemas   *schema.Resolver
	templates *template.Resolver
	logger    *slog.Logger
	hooks     domain.LifecycleHooks

	defaultTimeout           time.Duration
	maxConversationTurns     int
	skippedSatisfiesRequired bool
}

// NewExecutor creates an Executor dispatching through reg and resolving
// schemas through schemas.
func NewExecutor(reg *registry.Registry, schemas *schema.Resolver, opts ...Option) *Executor {
	e := &Executor{
		registry:             reg,
		schemas:              schemas,
		templates:            template.NewResolver(),
		logger:               logging.NewNop(),
		maxConversationTurns: DefaultMaxConversationTurns,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes every step of recipe in declaration order. Initial inputs are
// seeded into the __global namespace before the first step.
//
// The returned Result is non-nil even on failure, carrying the partial
// context and run metadata accumulated so far.
func (e *Executor) Run(ctx context.Context, recipe *domain.Recipe, inputs map[string]any) (*domain.Result, error) {
	e.registry.Freeze()

	state := domain.NewState()
	for k, v := range inputs {
		state.SetGlobal(k, v)
	}

	meta := domain.ChainMetadata{
		Name:      recipe.Name,
		Version:   recipe.Version,
		Domain:    recipe.Domain,
		RunID:     uuid.NewString(),
		Status:    domain.RunRunning,
		StartedAt: time.Now().UTC(),
	}
	logger := e.logger.With("recipe", recipe.Name, "run_id", meta.RunID)
	logger.Info("run started", "steps", len(recipe.Steps))
	e.emitRun(ctx, domain.EventRunStart, &meta)

	var runErr error
	for i := range recipe.Steps {
		step := &recipe.Steps[i]

		// Cancellation is cooperative and checked only between steps.
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		record, err := e.runStep(ctx, logger, &meta, step, state)
		meta.Steps = append(meta.Steps, record)

		if err != nil {
			runErr = err
			break
		}
	}

	meta.Duration = time.Since(meta.StartedAt).Seconds()
	if runErr != nil {
		meta.Status = domain.RunAborted
		logger.Error("run aborted", "error", runErr, "duration_s", meta.Duration)
	} else {
		meta.Status = domain.RunCompleted
		logger.Info("run completed", "duration_s", meta.Duration)
	}
	e.emitRun(ctx, domain.EventRunEnd, &meta)

	result := buildResult(state, meta)
	if runErr != nil {
		return result, runErr
	}

	if recipe.MasterOutputSchema != nil {
		if err := e.validateMasterOutput(result, recipe.MasterOutputSchema); err != nil {
			logger.Warn("master output schema violated", "error", err)
			return result, err
		}
	}
	return result, nil
}

// runStep walks one step through its state machine and writes its output into
// state. Failures are mirrored into a failed StepOutput so partial contexts
// stay inspectable, and returned as the error.
func (e *Executor) runStep(ctx context.Context, logger *slog.Logger, meta *domain.ChainMetadata, step *domain.StepSpec, state *domain.State) (domain.StepRecord, error) {
	record := domain.StepRecord{Name: step.Name, Type: step.Type, Status: domain.StepPending}
	started := time.Now()
	e.emitStep(ctx, domain.EventStepStart, meta, step, &record, 0)

	finish := func(status domain.StepStatus, err error) (domain.StepRecord, error) {
		record.Status = status
		record.Duration = time.Since(started).Seconds()
		if err != nil {
			record.Error = err.Error()
		}
		e.emitStep(ctx, domain.EventStepEnd, meta, step, &record, record.Duration)
		return record, err
	}

	fail := func(err error) (domain.StepRecord, error) {
		_ = state.Set(step.Name, &domain.StepOutput{Success: false, Error: err.Error()})
		logger.Error("step failed", "step", step.Name, "type", step.Type, "error", err)
		return finish(domain.StepFailed, err)
	}

	if step.Condition != "" {
		ok, err := e.templates.EvalCondition(step.Condition, state.Snapshot())
		if err != nil {
			return fail(err)
		}
		if !ok {
			_ = state.Set(step.Name, &domain.StepOutput{Success: true, Skipped: true})
			logger.Debug("step skipped", "step", step.Name, "condition", step.Condition)
			return finish(domain.StepSkipped, nil)
		}
	}

	record.Status = domain.StepResolving
	resolved, err := e.templates.ResolveValue(step.Config, state.Snapshot())
	if err != nil {
		return fail(err)
	}
	config, _ := resolved.(map[string]any)
	if config == nil {
		config = map[string]any{}
	}
	// The conversation id decodes into its own StepSpec field, not into the
	// free-form config, so handlers would never see it otherwise.
	if conv := step.Conversation; conv != "" && conv != domain.ConversationNone {
		config["conversation"] = conv
	}

	var outputSchema map[string]any
	if step.OutputSchema != nil {
		outputSchema, err = e.schemas.Resolve(step.OutputSchema)
		if err != nil {
			return fail(err)
		}
	}

	handler, err := e.registry.Lookup(step.Type)
	if err != nil {
		var unknown *registry.UnknownTypeError
		if errors.As(err, &unknown) {
			unknown.Step = step.Name
		}
		return fail(err)
	}
	if outputSchema == nil {
		if declared := handler.Schema(); declared != nil {
			outputSchema, err = e.schemas.Resolve(declared)
			if err != nil {
				return fail(err)
			}
		}
	}

	record.Status = domain.StepExecuting
	raw, err := e.invoke(ctx, step, handler, config, state)
	if err != nil {
		return fail(err)
	}

	output := normalize(raw)
	if outputSchema != nil {
		target := any(output.Data)
		if output.Data == nil {
			target = output.Raw
		}
		if err := schema.Validate(target, outputSchema); err != nil {
			return fail(fmt.Errorf("step %q output: %w", step.Name, err))
		}
	}

	if err := state.Set(step.Name, output); err != nil {
		return fail(err)
	}
	if conv := step.Conversation; conv != "" && conv != domain.ConversationNone {
		state.PruneConversation(conv, e.maxConversationTurns)
	}

	logger.Debug("step succeeded", "step", step.Name, "type", step.Type)
	return finish(domain.StepSucceeded, nil)
}

// invoke calls a handler, applying the step timeout when one is configured.
// A timed-out handler goroutine is abandoned, never preempted; its eventual
// return value is discarded.
func (e *Executor) invoke(ctx context.Context, step *domain.StepSpec, handler registry.Handler, config map[string]any, state *domain.State) (any, error) {
	timeout := e.defaultTimeout
	if step.Timeout != "" {
		d, err := time.ParseDuration(step.Timeout)
		if err != nil {
			return nil, &domain.HandlerExecutionError{Step: step.Name, Type: step.Type,
				Err: fmt.Errorf("invalid timeout %q: %w", step.Timeout, err)}
		}
		timeout = d
	}

	run := func(ctx context.Context) (any, error) {
		raw, err := handler.Execute(ctx, config, state)
		if err != nil {
			return nil, &domain.HandlerExecutionError{Step: step.Name, Type: step.Type, Err: err}
		}
		return raw, nil
	}

	if timeout <= 0 {
		return run(ctx)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		raw any
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		raw, err := run(callCtx)
		done <- outcome{raw, err}
	}()

	expired := callCtx.Done()
	for {
		select {
		case out := <-done:
			// A handler that noticed the deadline itself reports the same
			// way as one we abandoned.
			if out.err != nil && errors.Is(out.err, context.DeadlineExceeded) {
				return nil, &domain.TimeoutError{Step: step.Name, Timeout: timeout.String()}
			}
			return out.raw, out.err
		case <-expired:
			if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
				return nil, &domain.TimeoutError{Step: step.Name, Timeout: timeout.String()}
			}
			// Caller cancellation is honored at the next step boundary,
			// never mid-call; keep waiting for the handler.
			expired = nil
		}
	}
}

// normalize shapes a raw handler return into a StepOutput. Maps mirror into
// data; anything else stays raw only.
func normalize(raw any) *domain.StepOutput {
	out := &domain.StepOutput{Raw: raw, Success: true}
	if m, ok := raw.(map[string]any); ok {
		out.Data = m
	}
	return out
}

// validateMasterOutput checks the whole result document against the recipe's
// master schema. Skipped step records only count toward required entries when
// the executor is configured to accept them; the document itself is never
// altered by a failure here.
func (e *Executor) validateMasterOutput(result *domain.Result, master map[string]any) error {
	doc := result.Document()

	var errs []error
	if !e.skippedSatisfiesRequired {
		resolved, err := e.schemas.Resolve(master)
		if err != nil {
			return err
		}
		if required, ok := resolved["required"].([]any); ok {
			for _, item := range required {
				name, ok := item.(string)
				if !ok {
					continue
				}
				if out, present := result.Outputs[name]; present && out.Skipped {
					errs = append(errs, &schema.ValidationError{
						Path:   name,
						Reason: "required step was skipped",
					})
				}
			}
		}
	}

	if err := e.schemas.Validate(doc, master); err != nil {
		if nested := schema.ValidationErrors(err); nested != nil {
			errs = append(errs, nested...)
		} else {
			return err
		}
	}

	if len(errs) > 0 {
		return &schema.AggregateError{Errors: errs}
	}
	return nil
}

func buildResult(state *domain.State, meta domain.ChainMetadata) *domain.Result {
	order := state.Names()
	outputs := make(map[string]*domain.StepOutput, len(order))
	for _, name := range order {
		if out, ok := state.Get(name); ok {
			outputs[name] = out
		}
	}
	return &domain.Result{Outputs: outputs, Order: order, Metadata: meta}
}

func (e *Executor) emitRun(ctx context.Context, typ domain.EventType, meta *domain.ChainMetadata) {
	var fn func(context.Context, *domain.RunEvent)
	switch typ {
	case domain.EventRunStart:
		fn = e.hooks.OnRunStart
	case domain.EventRunEnd:
		fn = e.hooks.OnRunEnd
	}
	if fn == nil {
		return
	}
	fn(ctx, &domain.RunEvent{
		Timestamp: time.Now().UTC(),
		Type:      typ,
		RunID:     meta.RunID,
		Recipe:    meta.Name,
		Status:    meta.Status,
		Duration:  meta.Duration,
	})
}

func (e *Executor) emitStep(ctx context.Context, typ domain.EventType, meta *domain.ChainMetadata, step *domain.StepSpec, record *domain.StepRecord, duration float64) {
	var fn func(context.Context, *domain.StepEvent)
	switch typ {
	case domain.EventStepStart:
		fn = e.hooks.OnStepStart
	case domain.EventStepEnd:
		fn = e.hooks.OnStepEnd
	}
	if fn == nil {
		return
	}
	fn(ctx, &domain.StepEvent{
		Timestamp: time.Now().UTC(),
		Type:      typ,
		RunID:     meta.RunID,
		Recipe:    meta.Name,
		Step:      step.Name,
		StepType:  step.Type,
		Status:    record.Status,
		Duration:  duration,
	})
}
