package domain

// DefaultDomain is assigned to recipes that do not declare one.
const DefaultDomain = "generic"

// ConversationNone disables conversation tracking for a step.
const ConversationNone = "none"

// Recipe is a fully composed, ordered workflow definition.
// After composition (includes/extends resolution) step names are unique.
type Recipe struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty" mapstructure:"version"`
	Domain      string `json:"domain,omitempty" yaml:"domain,omitempty" mapstructure:"domain"`

	// Includes lists templates whose steps are merged before this recipe's own.
	Includes []string `json:"includes,omitempty" yaml:"includes,omitempty" mapstructure:"includes"`

	// Extends names a single parent template whose steps are prepended.
	// Same-named local steps override the parent's.
	Extends string `json:"extends,omitempty" yaml:"extends,omitempty" mapstructure:"extends"`

	// Steps is the ordered step list. The document key is "links".
	Steps []StepSpec `json:"links" yaml:"links" mapstructure:"links"`

	// MasterOutputSchema, when present, validates the whole result document
	// after the last step.
	MasterOutputSchema map[string]any `json:"master_output_schema,omitempty" yaml:"master_output_schema,omitempty" mapstructure:"master_output_schema"`
}

// StepSpec describes one typed operation within a recipe.
type StepSpec struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	Type string `json:"type" yaml:"type" mapstructure:"type"`

	// Condition is a template expression; a falsy result skips the step.
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty" mapstructure:"condition"`

	// Conversation names the turn history this step reads and appends to.
	// Empty or "none" means the step does not touch conversation state.
	Conversation string `json:"conversation,omitempty" yaml:"conversation,omitempty" mapstructure:"conversation"`

	// Timeout bounds the handler invocation (Go duration string, e.g. "30s").
	// Empty means no timeout.
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty" mapstructure:"timeout"`

	// OutputSchema is the raw schema declaration ($ref, base+extensions or
	// inline) resolved by pkg/schema before dispatch.
	OutputSchema map[string]any `json:"output_schema,omitempty" yaml:"output_schema,omitempty" mapstructure:"output_schema"`

	// Config holds all handler-specific fields. Every value passes through
	// template resolution before the handler sees it.
	Config map[string]any `json:",inline" yaml:",inline" mapstructure:",remain"`
}
