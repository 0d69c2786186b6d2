package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openstax/openstax-resource-names/internal/metrics"
)

// RouterConfig holds the router options.
type RouterConfig struct {
	// CompressLevel enables gzip responses when > 0.
	CompressLevel int
}

// NewRouter mounts the API on a chi router with the standard middleware stack.
func NewRouter(s *Server, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(Recoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLog(s.logger))
	r.Use(metrics.Middleware())
	if cfg.CompressLevel > 0 {
		r.Use(chiMiddleware.Compress(cfg.CompressLevel, "application/json"))
	}

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v0", func(r chi.Router) {
		r.Get("/orn-lookup", s.Lookup)
		r.Get("/search", s.Search)
	})
	r.Get("/orn/*", s.Resource)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})
	return r
}
