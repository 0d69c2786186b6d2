package locate

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/openstax/openstax-resource-names/internal/domain"
	"github.com/openstax/openstax-resource-names/internal/domain/batch"
	"github.com/openstax/openstax-resource-names/internal/domain/resource"
	"github.com/openstax/openstax-resource-names/internal/logger"
	"github.com/openstax/openstax-resource-names/internal/metrics"
	"github.com/openstax/openstax-resource-names/internal/pool"
)

// DefaultConcurrency bounds batch lookups when no option overrides it.
const DefaultConcurrency = 2

var errSkipped = errors.New("skipped after an earlier failure")

// Option tunes a single Locate/LocateAll/LocateEach call.
type Option func(*options)

type options struct {
	skipCache   bool
	concurrency int
}

// SkipCache bypasses the cache read. Resolved records are still written back.
func SkipCache() Option { return func(o *options) { o.skipCache = true } }

// Concurrency sets the number of names resolved at once by a batch call.
func Concurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// Engine resolves resource names through the pattern registry.
type Engine struct {
	registry    *Registry
	cache       CacheStore
	concurrency int
}

// NewEngine creates an engine without a cache.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry, concurrency: DefaultConcurrency}
}

// WithCache configures the lookup cache.
func (e *Engine) WithCache(cache CacheStore) *Engine {
	e.cache = cache
	return e
}

// WithConcurrency configures the default batch concurrency.
func (e *Engine) WithConcurrency(n int) *Engine {
	if n > 0 {
		e.concurrency = n
	}
	return e
}

// Registry returns the pattern table the engine dispatches on.
func (e *Engine) Registry() *Registry { return e.registry }

func (e *Engine) options(opts []Option) options {
	o := options{concurrency: e.concurrency}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Locate resolves one name. A name no pattern matches yields a not-found record.
func (e *Engine) Locate(ctx context.Context, name string, opts ...Option) (resource.Resource, error) {
	return e.locate(ctx, name, e.options(opts))
}

func (e *Engine) locate(ctx context.Context, name string, o options) (resource.Resource, error) {
	p, params, ok := e.registry.Dispatch(name)
	if !ok {
		metrics.LocateTotal.WithLabelValues("none", metrics.StatusNotFound).Inc()
		return resource.NewNotFound(name), nil
	}

	start := time.Now()
	defer func() {
		metrics.LocateDuration.WithLabelValues(p.Name).Observe(time.Since(start).Seconds())
	}()

	useCache := p.Cacheable && e.cache != nil
	log := logger.FromContext(ctx)

	if useCache && !o.skipCache {
		cached, err := e.cache.GetItem(ctx, name)
		if err != nil {
			metrics.CacheTotal.WithLabelValues(metrics.CacheError).Inc()
			metrics.LocateTotal.WithLabelValues(p.Name, metrics.StatusError).Inc()
			return nil, fmt.Errorf("read cache for %q: %w", name, err)
		}
		if cached != nil {
			metrics.CacheTotal.WithLabelValues(metrics.CacheHit).Inc()
			metrics.LocateTotal.WithLabelValues(p.Name, metrics.StatusOK).Inc()
			log.Debug("Cache hit", zap.String("orn", name), zap.String("pattern", p.Name))
			return cached, nil
		}
		metrics.CacheTotal.WithLabelValues(metrics.CacheMiss).Inc()
	}

	res, err := p.Resolve(ctx, params)
	if err != nil {
		status := metrics.StatusError
		if errors.Is(err, domain.ErrNotFound) {
			status = metrics.StatusNotFound
		}
		metrics.LocateTotal.WithLabelValues(p.Name, status).Inc()
		log.Debug("Resolve failed", zap.String("orn", name), zap.String("pattern", p.Name), zap.Error(err))
		return nil, err //nolint:wrapcheck // resolver errors propagate unmodified
	}
	metrics.LocateTotal.WithLabelValues(p.Name, metrics.StatusOK).Inc()

	if useCache && res != nil {
		if err := e.cache.PutItem(ctx, name, res); err != nil {
			metrics.CacheTotal.WithLabelValues(metrics.CacheWriteError).Inc()
			log.Warn("Cache write failed", zap.String("orn", name), zap.Error(err))
		}
	}
	return res, nil
}

// LocateAll resolves names in input order with bounded concurrency.
// The first failure fails the batch: names not yet started are skipped and
// the error of the lowest failed index is returned.
func (e *Engine) LocateAll(ctx context.Context, names []string, opts ...Option) ([]resource.Resource, error) {
	if len(names) == 0 {
		return []resource.Resource{}, nil
	}
	o := e.options(opts)

	out := make([]resource.Resource, len(names))
	errs := make([]error, len(names))
	var failed atomic.Bool

	if err := pool.Run(o.concurrency, len(names), func(i int) {
		if failed.Load() {
			errs[i] = errSkipped
			return
		}
		out[i], errs[i] = e.locate(ctx, names[i], o)
		if errs[i] != nil {
			failed.Store(true)
		}
	}); err != nil {
		return nil, fmt.Errorf("locate batch: %w", err)
	}

	for _, err := range errs {
		if err != nil && !errors.Is(err, errSkipped) {
			return nil, err
		}
	}
	return out, nil
}

// LocateEach resolves names in input order, isolating failures per item.
func (e *Engine) LocateEach(ctx context.Context, names []string, opts ...Option) []batch.Result {
	results := make([]batch.Result, len(names))
	if len(names) == 0 {
		return results
	}
	o := e.options(opts)

	if err := pool.Run(o.concurrency, len(names), func(i int) {
		res, err := e.locate(ctx, names[i], o)
		if err != nil {
			results[i] = batch.NewError(names[i], err)
			return
		}
		results[i] = batch.NewOK(names[i], res)
	}); err != nil {
		for i := range results {
			if results[i].Status() == "" {
				results[i] = batch.NewError(names[i], fmt.Errorf("locate batch: %w", err))
			}
		}
	}
	return results
}
