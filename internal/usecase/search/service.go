package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openstax/openstax-resource-names/internal/domain"
	"github.com/openstax/openstax-resource-names/internal/domain/relevance"
	"github.com/openstax/openstax-resource-names/internal/domain/resource"
	"github.com/openstax/openstax-resource-names/internal/domain/search/request"
	"github.com/openstax/openstax-resource-names/internal/domain/search/result"
	"github.com/openstax/openstax-resource-names/internal/logger"
	"github.com/openstax/openstax-resource-names/internal/metrics"
	"github.com/openstax/openstax-resource-names/internal/usecase/locate"
)

// scopeKinds are the records a search can be narrowed to.
var scopeKinds = map[resource.Type]bool{
	resource.TypeLibrary: true,
	resource.TypeBook:    true,
	resource.TypeSubbook: true,
	resource.TypePage:    true,
}

// Service runs free-text search across every pattern that supports it.
type Service struct {
	patterns PatternSource
	locator  Locator
	index    locate.IndexSearcher
}

// New creates a search service. index may be nil, in which case patterns fall
// back to local ranking or return nothing.
func New(patterns PatternSource, locator Locator, index locate.IndexSearcher) *Service {
	return &Service{patterns: patterns, locator: locator, index: index}
}

// Search runs the query through each selected pattern and returns the
// non-empty groups in pattern order. Each pattern returns at most req.Limit() items.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Result, error) {
	ctx = logger.With(ctx, zap.String("search_query", req.Query()))

	selected, err := s.selectPatterns(req.Types())
	if err != nil {
		return result.Result{}, err
	}

	scope, err := s.resolveScope(ctx, req.Scope())
	if err != nil {
		return result.Result{}, err
	}

	q := locate.SearchQuery{
		Text:     req.Query(),
		Terms:    relevance.Parse(req.Query()),
		Limit:    req.Limit(),
		Strategy: req.Strategy(),
		Scope:    scope,
	}
	env := locate.SearchEnv{Locator: s.locator, Index: s.index}

	items := make([][]resource.Resource, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range selected {
		g.Go(func() error {
			found, err := p.Search(gctx, env, q)
			if err != nil {
				return fmt.Errorf("search %s: %w", p.Name, err)
			}
			items[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result.Result{}, err //nolint:wrapcheck // wrapped per pattern
	}

	var res result.Result
	for i, p := range selected {
		metrics.SearchResultsTotal.WithLabelValues(p.Name).Add(float64(len(items[i])))
		res.Add(result.Group{Type: string(p.Kind), Name: p.Name, Items: items[i]})
	}

	logger.FromContext(ctx).Debug("search completed",
		zap.Int("groups", res.Len()),
		zap.Int("scope", len(scope)),
	)
	return res, nil
}

// selectPatterns keeps the searchable patterns, restricted to types when given.
// A type may be a record type ("book:page") or a pattern name ("Page").
func (s *Service) selectPatterns(types []string) ([]locate.Pattern, error) {
	all := s.patterns.Patterns()

	wanted := make(map[string]bool, len(types))
	for _, t := range types {
		if p, ok := s.patterns.ByKind(resource.Type(t)); ok && p.Search != nil {
			wanted[p.Name] = true
			continue
		}
		known := false
		for _, p := range all {
			if p.Search != nil && strings.EqualFold(p.Name, t) {
				wanted[p.Name] = true
				known = true
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: unknown search type %q", domain.ErrInvalidRequest, t)
		}
	}

	out := make([]locate.Pattern, 0, len(all))
	for _, p := range all {
		if p.Search == nil || (len(wanted) > 0 && !wanted[p.Name]) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// resolveScope looks up the scope names and keeps the records a search can be
// narrowed to. A scope that names nothing searchable is rejected.
func (s *Service) resolveScope(ctx context.Context, names []string) ([]resource.Resource, error) {
	if len(names) == 0 {
		return nil, nil
	}
	found, err := s.locator.LocateAll(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("resolve scope: %w", err)
	}

	scope := make([]resource.Resource, 0, len(found))
	for _, r := range found {
		if r != nil && scopeKinds[r.Kind()] {
			scope = append(scope, r)
		}
	}
	if len(scope) == 0 {
		return nil, fmt.Errorf("%w: scope %s names no library, book, subbook or page",
			domain.ErrInvalidRequest, strings.Join(names, ","))
	}
	return scope, nil
}
