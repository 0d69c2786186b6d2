// Package cli implements the ornctl command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openstax/openstax-resource-names/internal/app"
	"github.com/openstax/openstax-resource-names/internal/config"
	"github.com/openstax/openstax-resource-names/internal/domain/resource"
	"github.com/openstax/openstax-resource-names/internal/domain/search/request"
	"github.com/openstax/openstax-resource-names/internal/domain/search/result"
	logpkg "github.com/openstax/openstax-resource-names/internal/logger"
	"github.com/openstax/openstax-resource-names/internal/usecase/locate"
)

// ErrCacheDisabled is returned by cache commands when no cache is configured.
var ErrCacheDisabled = errors.New("cache is disabled (cache.driver: none)")

// Locator resolves resource names in batches.
type Locator interface {
	LocateAll(ctx context.Context, names []string, opts ...locate.Option) ([]resource.Resource, error)
}

// Searcher runs free-text search.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Result, error)
}

// CacheAdmin manages cached records.
type CacheAdmin interface {
	Evict(ctx context.Context, name string) error
	Purge(ctx context.Context) (int, error)
}

// Deps are the services commands run against. Cache is nil when disabled.
type Deps struct {
	Locator  Locator
	Searcher Searcher
	Cache    CacheAdmin
}

// Factory builds Deps for a command run and returns a cleanup function.
type Factory func(ctx context.Context, logLevel string) (*Deps, func(), error)

// NewRootCmd creates the ornctl root command.
func NewRootCmd(factory Factory) *cobra.Command {
	var (
		logLevel string
		deps     *Deps
		cleanup  func()
	)

	root := &cobra.Command{
		Use:           "ornctl",
		Short:         "Resolve and search OpenStax resource names",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			d, done, err := factory(cmd.Context(), logLevel)
			if err != nil {
				return err
			}
			deps, cleanup = d, done
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		NewLocateCmd(&deps),
		NewSearchCmd(&deps),
		NewCacheCmd(&deps),
		NewVersionCmd(),
	)

	// Release the services after every command, including failed ones.
	closeDeps := func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}
	walk(root, func(c *cobra.Command) {
		if run := c.RunE; run != nil {
			c.RunE = func(cmd *cobra.Command, args []string) error {
				defer closeDeps()
				return run(cmd, args)
			}
		}
	})
	return root
}

func walk(c *cobra.Command, fn func(*cobra.Command)) {
	fn(c)
	for _, sub := range c.Commands() {
		walk(sub, fn)
	}
}

// DefaultFactory wires the services from the ENV configuration file.
func DefaultFactory(ctx context.Context, logLevel string) (*Deps, func(), error) {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("wire services: %w", err)
	}

	deps := &Deps{Locator: a.Engine, Searcher: a.Search}
	if a.Cache != nil {
		deps.Cache = a.Cache
	}
	return deps, func() {
		a.Close()
		_ = logger.Sync()
	}, nil
}
