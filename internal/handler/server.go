// Package handler implements the HTTP handlers for the feature service.
// All handlers are methods on Server. Methods are split into resource-specific
// files (landing.go, feature.go, process.go, etc.) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/featureserv/internal/domain"
	"github.com/pkordes/featureserv/spec"
)

// FeatureServicer defines the read operations the feature handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the store.
type FeatureServicer interface {
	List(ctx context.Context) (domain.FeatureCollection, error)
	GetByID(ctx context.Context, id int64) (domain.Feature, error)
}

// BufferServicer defines the buffer transformation the process handler depends on.
type BufferServicer interface {
	Buffer(ctx context.Context, fc domain.FeatureCollection, distance float64, opts domain.BufferOptions) (domain.FeatureCollection, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	features FeatureServicer
	buffer   BufferServicer
	links    linkBuilder
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// baseURL prefixes every href in link documents. A nil logger means slog.Default().
func NewServer(features FeatureServicer, buffer BufferServicer, baseURL string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		features: features,
		buffer:   buffer,
		links:    linkBuilder{base: baseURL},
		log:      logger,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, "", nil)
}

// Routes returns a chi router serving every endpoint.
// Cross-cutting middleware (request ids, logging, CORS, metrics) is applied
// by the caller so tests can exercise the routes bare.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", s.GetLandingPage)
	r.Get("/conformance", s.GetConformance)
	r.Get("/collections", s.GetCollections)
	r.Get("/collections/{collectionId}/items", s.GetFeatures)
	r.Get("/collections/{collectionId}/items/{featureId}", s.GetFeature)
	r.Get("/processes", s.GetProcesses)
	r.Get("/processes/{processId}", s.GetProcess)
	r.Post("/process/buffer", s.ExecuteBuffer)
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	return r
}

// serveOpenAPI handles GET /openapi.yaml.
func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
