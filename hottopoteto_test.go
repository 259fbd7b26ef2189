package hottopoteto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muunkky/hottopoteto/pkg/adapters/memory"
	"github.com/muunkky/hottopoteto/pkg/domain"
	"github.com/muunkky/hottopoteto/pkg/registry"
)

func TestNewRequiresRecipeSource(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	_, err = New("", WithLoader(memory.NewLoader(nil)))
	assert.NoError(t, err)
}

func TestEngineRunEndToEnd(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"pipeline": `
name: pipeline
links:
  - name: Compute
    type: function
    function: answer
  - name: Announce
    type: template
    template: "the answer is {{ Compute.raw }}"
  - name: Persist
    type: storage.save
    collection: results
    id: latest
    data:
      answer: "{{ Compute.raw }}"
`,
	})
	eng, err := New("", WithLoader(loader), WithFunction("answer",
		func(ctx context.Context, args map[string]any) (any, error) {
			return 42, nil
		}))
	require.NoError(t, err)

	result, err := eng.Run(context.Background(), "pipeline", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.RunCompleted, result.Metadata.Status)
	assert.Equal(t, 42, result.Outputs["Compute"].Raw)
	assert.Equal(t, "the answer is 42", result.Outputs["Announce"].Raw)
	assert.Equal(t, "latest", result.Outputs["Persist"].Data["id"])
}

func TestEngineStorageRoundTripAcrossSteps(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"roundtrip": `
name: roundtrip
links:
  - name: Put
    type: storage.save
    collection: notes
    id: n1
    data:
      text: hello
  - name: Fetch
    type: storage.get
    collection: notes
    id: "{{ Put.data.id }}"
`,
	})
	eng, err := New("", WithLoader(loader))
	require.NoError(t, err)

	result, err := eng.Run(context.Background(), "roundtrip", nil)
	require.NoError(t, err)

	fetched := result.Outputs["Fetch"].Data
	assert.Equal(t, "hello", fetched["data"].(map[string]any)["text"])
}

func TestEngineRegisteredSchema(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"typed": `
name: typed
links:
  - name: Produce
    type: function
    function: person
    output_schema:
      $ref: person
`,
	})
	eng, err := New("", WithLoader(loader),
		WithSchema("person", map[string]any{
			"type":     "object",
			"required": []any{"name"},
		}),
		WithFunction("person", func(ctx context.Context, args map[string]any) (any, error) {
			return map[string]any{"nickname": "Ann"}, nil
		}))
	require.NoError(t, err)

	_, err = eng.Run(context.Background(), "typed", nil)
	require.Error(t, err, "output missing required name must fail validation")
}

func TestEnginePluginHandler(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"plugin": `
name: plugin
links:
  - name: Custom
    type: acme.op
`,
	})
	eng, err := New("", WithLoader(loader))
	require.NoError(t, err)

	require.NoError(t, eng.RegisterHandler("acme.op", registry.HandlerFunc(
		func(ctx context.Context, config map[string]any, state *domain.State) (any, error) {
			return "plugged in", nil
		})))

	result, err := eng.Run(context.Background(), "plugin", nil)
	require.NoError(t, err)
	assert.Equal(t, "plugged in", result.Outputs["Custom"].Raw)

	// The first run froze the registry.
	assert.Error(t, eng.RegisterHandler("late.op", registry.HandlerFunc(
		func(ctx context.Context, config map[string]any, state *domain.State) (any, error) {
			return nil, nil
		})))
}

func TestEngineTemplateFunc(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"custom": `
name: custom
links:
  - name: Shout
    type: template
    template: "{{ shout() }}"
`,
	})
	eng, err := New("", WithLoader(loader), WithTemplateFunc("shout",
		func(args []any) (any, error) {
			return "HEY", nil
		}))
	require.NoError(t, err)

	result, err := eng.Run(context.Background(), "custom", nil)
	require.NoError(t, err)
	assert.Equal(t, "HEY", result.Outputs["Shout"].Raw)
}

func TestEngineListsBuiltins(t *testing.T) {
	eng, err := New("", WithLoader(memory.NewLoader(nil)))
	require.NoError(t, err)

	types := eng.LinkTypes()
	for _, want := range []string{"template", "function", "user_input", "storage.save", "storage.get", "storage.list", "storage.delete"} {
		assert.Contains(t, types, want)
	}
}

func TestEngineConversationAcrossSteps(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"chat": `
name: chat
links:
  - name: Opening
    type: template
    conversation: chat
    template: "You are a poet."
  - name: Reply
    type: template
    conversation: chat
    template: "Here is a poem."
  - name: Recap
    type: template
    template: "{{ __conversations.chat.0.content }} / {{ __conversations.chat.1.content }}"
`,
	})
	eng, err := New("", WithLoader(loader))
	require.NoError(t, err)

	result, err := eng.Run(context.Background(), "chat", nil)
	require.NoError(t, err)

	assert.Equal(t, "You are a poet. / Here is a poem.", result.Outputs["Recap"].Raw)
}
