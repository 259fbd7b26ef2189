package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muunkky/hottopoteto"
	"github.com/muunkky/hottopoteto/pkg/adapters/httpapi"
	"github.com/muunkky/hottopoteto/pkg/adapters/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	loader := memory.NewLoader(map[string]string{
		"greet": `
name: greet
links:
  - name: Say
    type: template
    template: "hello {{ __global.who }}"
`,
		"broken": `
name: broken
links:
  - name: Bad
    type: no.such.type
`,
	})
	eng, err := hottopoteto.New("", hottopoteto.WithLoader(loader),
		hottopoteto.WithFunction("noop", func(ctx context.Context, args map[string]any) (any, error) {
			return nil, nil
		}))
	require.NoError(t, err)

	srv := httptest.NewServer(httpapi.NewHandler(eng, nil))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRunNamedRecipe(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/recipes/greet/run", map[string]any{
		"inputs": map[string]any{"who": "Ada"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode(t, resp)
	doc := out["document"].(map[string]any)
	say := doc["Say"].(map[string]any)
	assert.Equal(t, "hello Ada", say["raw"])
}

func TestRunUnknownRecipeIs404(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/recipes/ghost/run", map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunFailureReturnsPartialDocument(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/recipes/broken/run", map[string]any{})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	out := decode(t, resp)
	assert.NotEmpty(t, out["error"])
	assert.Contains(t, out, "document")
}

func TestRunInlineRecipe(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/recipes/run", map[string]any{
		"recipe": "name: inline\nlinks:\n  - name: Echo\n    type: template\n    template: inline works\n",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := decode(t, resp)["document"].(map[string]any)
	assert.Equal(t, "inline works", doc["Echo"].(map[string]any)["raw"])
}

func TestListLinksAndRecipes(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/links")
	require.NoError(t, err)
	defer resp.Body.Close()
	types := decode(t, resp)["types"].([]any)
	assert.Contains(t, types, "template")

	resp, err = http.Get(srv.URL + "/recipes")
	require.NoError(t, err)
	defer resp.Body.Close()
	recipes := decode(t, resp)["recipes"].([]any)
	assert.Contains(t, recipes, "greet")
}

func TestGraphEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/recipes/greet/graph")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	assert.Contains(t, buf.String(), "graph TD")
}
