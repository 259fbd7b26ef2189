package domain

import (
	"fmt"
	"time"
)

// StepStatus tracks one step through the per-step state machine.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepSkipped   StepStatus = "skipped"
	StepResolving StepStatus = "resolving"
	StepExecuting StepStatus = "executing"
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
)

// RunStatus tracks the whole run.
type RunStatus string

const (
	RunLoaded    RunStatus = "loaded"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunAborted   RunStatus = "aborted"
)

// StepOutput is the normalized result of one step.
type StepOutput struct {
	// Raw is the verbatim handler return value.
	Raw any `json:"raw,omitempty"`

	// Data is the structured value, schema-validated when the step declared
	// an output schema. Nil when the handler produced nothing structured.
	Data map[string]any `json:"data,omitempty"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Turn is one prompt/response exchange within a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reserved context namespaces. They never collide with step names because
// step names are rejected at load time if they start with "__".
const (
	NamespaceConversations = "__conversations"
	NamespaceGlobal        = "__global"
	KeyChainMetadata       = "__chain_metadata__"
)

// State is the per-run execution context. It is owned exclusively by the
// executor for the duration of one run and is append-only: each step name is
// written at most once.
type State struct {
	order         []string
	outputs       map[string]*StepOutput
	conversations map[string][]Turn
	global        map[string]any
}

// NewState creates an empty execution context.
func NewState() *State {
	return &State{
		outputs:       make(map[string]*StepOutput),
		conversations: make(map[string][]Turn),
		global:        make(map[string]any),
	}
}

// Set records a step output. Writing the same name twice is a programming
// error surfaced as an explicit failure rather than a silent overwrite.
func (s *State) Set(name string, out *StepOutput) error {
	if _, exists := s.outputs[name]; exists {
		return fmt.Errorf("step %q already present in context", name)
	}
	s.order = append(s.order, name)
	s.outputs[name] = out
	return nil
}

// Get returns the output for a step, if present.
func (s *State) Get(name string) (*StepOutput, bool) {
	out, ok := s.outputs[name]
	return out, ok
}

// Names returns the step names in execution order.
func (s *State) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Conversation returns the turn history for an id (nil when absent).
func (s *State) Conversation(id string) []Turn {
	return s.conversations[id]
}

// AppendTurn adds a turn to a conversation, creating it on first use.
func (s *State) AppendTurn(id string, turn Turn) {
	s.conversations[id] = append(s.conversations[id], turn)
}

// PruneConversation trims a conversation to max turns, always keeping the
// first turn (the system message) and the most recent remainder.
func (s *State) PruneConversation(id string, max int) {
	turns := s.conversations[id]
	if max <= 0 || len(turns) <= max {
		return
	}
	pruned := make([]Turn, 0, max)
	pruned = append(pruned, turns[0])
	pruned = append(pruned, turns[len(turns)-(max-1):]...)
	s.conversations[id] = pruned
}

// Global returns the shared free-form bag visible to every step.
func (s *State) Global() map[string]any {
	return s.global
}

// SetGlobal writes a value into the shared bag.
func (s *State) SetGlobal(key string, value any) {
	s.global[key] = value
}

// Snapshot flattens the context into the map the template engine resolves
// against: step name -> {"raw": ..., "data": ...} plus the reserved
// namespaces.
func (s *State) Snapshot() map[string]any {
	snap := make(map[string]any, len(s.outputs)+2)
	for name, out := range s.outputs {
		entry := map[string]any{"raw": out.Raw, "success": out.Success}
		if out.Data != nil {
			entry["data"] = out.Data
		}
		if out.Skipped {
			entry["skipped"] = true
		}
		if out.Error != "" {
			entry["error"] = out.Error
		}
		snap[name] = entry
	}
	// Turns flatten into generic maps so template paths can index into them
	// ({{ __conversations.chat.0.content }}).
	convs := make(map[string]any, len(s.conversations))
	for id, turns := range s.conversations {
		flat := make([]any, len(turns))
		for i, turn := range turns {
			flat[i] = map[string]any{"role": turn.Role, "content": turn.Content}
		}
		convs[id] = flat
	}
	snap[NamespaceConversations] = convs
	snap[NamespaceGlobal] = s.global
	return snap
}

// StepRecord is the per-step entry in the run metadata.
type StepRecord struct {
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	Status   StepStatus `json:"status"`
	Duration float64    `json:"duration_seconds"`
	Error    string     `json:"error,omitempty"`
}

// ChainMetadata identifies the recipe and summarizes the run.
type ChainMetadata struct {
	Name      string       `json:"name"`
	Version   string       `json:"version,omitempty"`
	Domain    string       `json:"domain,omitempty"`
	RunID     string       `json:"run_id"`
	Status    RunStatus    `json:"status"`
	StartedAt time.Time    `json:"started_at"`
	Duration  float64      `json:"duration_seconds"`
	Steps     []StepRecord `json:"steps"`
}

// Result is what a run hands back to the caller: the public view of the
// context plus the run metadata. Partial results survive aborts.
type Result struct {
	Outputs  map[string]*StepOutput `json:"outputs"`
	Order    []string               `json:"order"`
	Metadata ChainMetadata          `json:"metadata"`
}

// Document renders the result as the flat map described by the recipe
// contract: one entry per executed step plus __chain_metadata__. Internal
// namespaces are excluded.
func (r *Result) Document() map[string]any {
	doc := make(map[string]any, len(r.Outputs)+1)
	for name, out := range r.Outputs {
		entry := map[string]any{"raw": out.Raw, "success": out.Success}
		if out.Data != nil {
			entry["data"] = out.Data
		}
		if out.Skipped {
			entry["skipped"] = true
		}
		if out.Error != "" {
			entry["error"] = out.Error
		}
		doc[name] = entry
	}
	doc[KeyChainMetadata] = r.Metadata
	return doc
}
