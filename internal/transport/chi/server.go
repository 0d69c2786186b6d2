package chi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"github.com/openstax/openstax-resource-names/internal/domain/orn"
	"github.com/openstax/openstax-resource-names/internal/domain/resource"
	"github.com/openstax/openstax-resource-names/internal/domain/search/request"
	"github.com/openstax/openstax-resource-names/internal/domain/search/result"
	healthuc "github.com/openstax/openstax-resource-names/internal/usecase/health"
	"github.com/openstax/openstax-resource-names/internal/usecase/locate"
)

// DefaultLookupConcurrency bounds the resolutions of a single lookup request.
const DefaultLookupConcurrency = 10

// Locator resolves resource names.
type Locator interface {
	Locate(ctx context.Context, name string, opts ...locate.Option) (resource.Resource, error)
	LocateAll(ctx context.Context, names []string, opts ...locate.Option) ([]resource.Resource, error)
}

// Searcher runs free-text search.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Result, error)
}

// HealthChecker reports service health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server serves the resource name HTTP API.
type Server struct {
	locator           Locator
	searcher          Searcher
	health            HealthChecker
	logger            *zap.Logger
	lookupConcurrency int
	errorHandlers     []errorHandler
}

// NewServer creates the HTTP API server. lookupConcurrency <= 0 selects
// DefaultLookupConcurrency.
func NewServer(
	locator Locator, searcher Searcher, health HealthChecker,
	logger *zap.Logger, lookupConcurrency int,
) *Server {
	if lookupConcurrency <= 0 {
		lookupConcurrency = DefaultLookupConcurrency
	}
	return &Server{
		locator:           locator,
		searcher:          searcher,
		health:            health,
		logger:            logger,
		lookupConcurrency: lookupConcurrency,
		errorHandlers:     defaultErrorHandlers(),
	}
}

type lookupResponse struct {
	Items []resource.Resource `json:"items"`
}

// Lookup handles GET /api/v0/orn-lookup?orn=a,b[&skipCache=true].
func (s *Server) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	names := request.SplitList(q.Get("orn"))
	if len(names) == 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "an orn query parameter is required")
		return
	}

	opts := []locate.Option{locate.Concurrency(s.lookupConcurrency)}
	if q.Get("skipCache") == "true" {
		opts = append(opts, locate.SkipCache())
	}

	items, err := s.locator.LocateAll(r.Context(), names, opts...)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeCacheableJSON(w, r, lookupResponse{Items: items})
}

// Search handles GET /api/v0/search?query=..&limit=..&type=..&scope=..&strategy=..
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be numeric")
			return
		}
		limit = n
	}

	req, err := request.New(
		q.Get("query"),
		limit,
		request.SplitList(q.Get("type")),
		request.SplitList(q.Get("scope")),
		q.Get("strategy"),
	)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.searcher.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeCacheableJSON(w, r, res)
}

// Resource handles GET /orn/{tail}. A ".json" suffix returns the record,
// anything else redirects to the resource's main location.
func (s *Server) Resource(w http.ResponseWriter, r *http.Request) {
	tail := chi.URLParam(r, "*")
	if name, ok := strings.CutSuffix(tail, ".json"); ok {
		s.resourceJSON(w, r, orn.Prefix+name)
		return
	}
	s.redirect(w, r, orn.Prefix+tail)
}

func (s *Server) resourceJSON(w http.ResponseWriter, r *http.Request, name string) {
	res, err := s.locator.Locate(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeCacheableJSON(w, r, res)
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, name string) {
	res, err := s.locator.Locate(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	v, ok := res.(resource.Visitable)
	if !ok || v.MainURL() == "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, "this resource doesn't seem to be visitable")
		return
	}
	http.Redirect(w, r, v.MainURL(), http.StatusFound)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("unhandled error",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// writeCacheableJSON writes v with a content hash ETag and answers a matching
// If-None-Match with 304.
func writeCacheableJSON(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	etag := fmt.Sprintf(`"%016x"`, xxh3.Hash(body))
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
