// Package app assembles the resource name service from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openstax/openstax-resource-names/internal/config"
	"github.com/openstax/openstax-resource-names/internal/db"
	dbBadger "github.com/openstax/openstax-resource-names/internal/db/badger"
	dbRedis "github.com/openstax/openstax-resource-names/internal/db/redis"
	"github.com/openstax/openstax-resource-names/internal/metrics"
	"github.com/openstax/openstax-resource-names/internal/repository/orncache"
	"github.com/openstax/openstax-resource-names/internal/transport/opensearch"
	"github.com/openstax/openstax-resource-names/internal/transport/upstream"
	"github.com/openstax/openstax-resource-names/internal/usecase/content"
	healthuc "github.com/openstax/openstax-resource-names/internal/usecase/health"
	"github.com/openstax/openstax-resource-names/internal/usecase/locate"
	searchuc "github.com/openstax/openstax-resource-names/internal/usecase/search"
)

// App holds the wired services. Cache is nil when caching is disabled.
type App struct {
	Engine *locate.Engine
	Search *searchuc.Service
	Health *healthuc.Service
	Cache  *orncache.Repo

	store db.Store
}

// New wires the store, upstream adapters, resolution engine and search
// service described by cfg.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	metrics.Register()

	store, err := OpenStore(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, err
	}

	fetch := upstream.New(upstream.Config{
		Timeout:      time.Duration(cfg.Upstream.TimeoutSec) * time.Second,
		MaxBodyBytes: cfg.Upstream.MaxBodyBytes,
	})
	books := content.NewBooks(content.Config{
		Host:          cfg.Upstream.Host,
		CMSPagesURL:   cfg.Upstream.CMSPagesURL,
		ReleaseURL:    cfg.Upstream.ReleaseURL,
		PreloadDir:    cfg.Upstream.PreloadDir,
		LibraryFanout: cfg.Upstream.LibraryFanout,
	}, fetch)
	ancillaries := content.NewAncillaries(cfg.Upstream.AncillariesHost, fetch)

	registry, err := locate.NewRegistry(content.Patterns(books, ancillaries)...)
	if err != nil {
		closeStore(store)
		return nil, fmt.Errorf("build pattern registry: %w", err)
	}
	engine := locate.NewEngine(registry).WithConcurrency(cfg.Locate.Concurrency)

	a := &App{store: store}

	// Pass nil interfaces, not typed nil pointers, for absent collaborators.
	var pinger healthuc.CachePinger
	if store != nil {
		a.Cache = orncache.New(
			store, cfg.Cache.KeyPrefix, time.Duration(cfg.Cache.TTLSec)*time.Second, logger,
		)
		engine = engine.WithCache(a.Cache)
		pinger = store
	}

	var index locate.IndexSearcher
	if cfg.Search.Host != "" {
		index = opensearch.New(cfg.Search.Host, fetch)
	}

	a.Engine = engine
	a.Search = searchuc.New(registry, engine, index)
	a.Health = healthuc.New(pinger, books)

	logger.Info("Resource name service wired",
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Bool("index_search", index != nil),
		zap.Int("patterns", len(registry.Patterns())),
	)
	return a, nil
}

// Close releases the cache store.
func (a *App) Close() {
	closeStore(a.store)
}

func closeStore(s db.Store) {
	if s != nil {
		s.Close()
	}
}

// OpenStore opens the configured cache backend and waits for it to accept
// commands. It returns a nil store for the "none" driver.
func OpenStore(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.CacheNone, "":
		return nil, nil
	case config.CacheRedis, config.CacheValkey:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:          cfg.Addrs,
			Username:       cfg.Username,
			Password:       cfg.Password,
			DB:             cfg.DB,
			ClientCacheTTL: time.Duration(cfg.ClientCacheTTL) * time.Second,
		})
	case config.CacheBadger:
		store, err = dbBadger.Open(cfg.Path, cfg.Path == "", logger)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache store: %w", cfg.Driver, err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("%s cache store not ready: %w", cfg.Driver, err)
	}
	logger.Info("Connected to cache store", zap.String("driver", cfg.Driver))
	return store, nil
}
