// Package httpapi exposes the engine over HTTP: recipe execution,
// introspection, health and metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/muunkky/hottopoteto/internal/logging"
	"github.com/muunkky/hottopoteto/internal/presentation/graph"
	"github.com/muunkky/hottopoteto/pkg/domain"
	"github.com/muunkky/hottopoteto/pkg/ports"
)

// Runner is the engine surface the HTTP layer needs.
type Runner interface {
	Run(ctx context.Context, name string, inputs map[string]any) (*domain.Result, error)
	RunBytes(ctx context.Context, source string, data []byte, inputs map[string]any) (*domain.Result, error)
	Compile(name string) (*domain.Recipe, error)
	LinkTypes() []string
	Loader() ports.RecipeLoader
}

// Server routes HTTP requests to a Runner.
type Server struct {
	runner Runner
	logger *slog.Logger
}

// NewHandler builds the HTTP handler for runner. A nil logger silences
// request logging.
func NewHandler(runner Runner, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/links", s.listLinks)
	r.Get("/recipes", s.listRecipes)
	r.Post("/recipes/run", s.runInline)
	r.Post("/recipes/{name}/run", s.runNamed)
	r.Get("/recipes/{name}/graph", s.renderGraph)
	return r
}

type runRequest struct {
	Recipe string         `json:"recipe,omitempty"`
	Inputs map[string]any `json:"inputs,omitempty"`
}

type runResponse struct {
	Document map[string]any `json:"document"`
	Error    string         `json:"error,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listLinks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"types": s.runner.LinkTypes()})
}

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	names, err := s.runner.Loader().ListRecipes()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": names})
}

func (s *Server) runNamed(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := decodeBody(r.Body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	name := chi.URLParam(r, "name")
	result, err := s.runner.Run(r.Context(), name, req.Inputs)
	s.writeRunResult(w, result, err)
}

func (s *Server) runInline(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := decodeBody(r.Body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Recipe == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("missing recipe document"))
		return
	}

	result, err := s.runner.RunBytes(r.Context(), "request", []byte(req.Recipe), req.Inputs)
	s.writeRunResult(w, result, err)
}

func (s *Server) renderGraph(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.runner.Compile(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(recipe)))
}

// writeRunResult maps a run outcome onto the wire: completed runs are 200,
// failed runs 500 with the partial document attached, unrunnable recipes 4xx.
func (s *Server) writeRunResult(w http.ResponseWriter, result *domain.Result, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, runResponse{Document: result.Document()})
		return
	}

	s.logger.Warn("run failed", "error", err)
	if result == nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusInternalServerError, runResponse{
		Document: result.Document(),
		Error:    err.Error(),
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	var (
		loadErr *domain.RecipeLoadError
		valErr  *domain.RecipeValidationError
	)
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound):
		return http.StatusNotFound
	case errors.As(err, &loadErr), errors.As(err, &valErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(body io.Reader, dst any) error {
	if err := json.NewDecoder(body).Decode(dst); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
