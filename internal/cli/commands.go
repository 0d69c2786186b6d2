package cli

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/openstax/openstax-resource-names/internal/domain/resource"
	"github.com/openstax/openstax-resource-names/internal/domain/search/request"
	"github.com/openstax/openstax-resource-names/internal/usecase/locate"
	"github.com/openstax/openstax-resource-names/internal/version"
)

// NewLocateCmd resolves names and prints the records as JSON.
func NewLocateCmd(deps **Deps) *cobra.Command {
	var (
		skipCache   bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "locate <orn>...",
		Short: "Resolve resource names",
		Long: `Resolve one or more resource names into records.

Examples:
  ornctl locate https://openstax.org/orn/library/en
  ornctl locate --skip-cache https://openstax.org/orn/book/<id>`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []locate.Option
			if concurrency > 0 {
				opts = append(opts, locate.Concurrency(concurrency))
			}
			if skipCache {
				opts = append(opts, locate.SkipCache())
			}

			items, err := (*deps).Locator.LocateAll(cmd.Context(), args, opts...)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				Items []resource.Resource `json:"items"`
			}{Items: items})
		},
	}

	cmd.Flags().BoolVar(&skipCache, "skip-cache", false, "resolve from upstream even when cached")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "parallel resolutions (default from config)")
	return cmd
}

// NewSearchCmd runs a free-text search and prints the groups as JSON.
func NewSearchCmd(deps **Deps) *cobra.Command {
	var (
		limit    int
		types    string
		scope    string
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search resources",
		Long: `Search resources by free text.

Examples:
  ornctl search "newton's laws"
  ornctl search kinematics -t book:page -l 10
  ornctl search vectors --scope https://openstax.org/orn/book/<id>`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := request.New(
				strings.Join(args, " "), limit,
				request.SplitList(types), request.SplitList(scope),
				strategy,
			)
			if err != nil {
				return err //nolint:wrapcheck // message is user facing
			}

			res, err := (*deps).Searcher.Search(cmd.Context(), &req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "results per type (default 5)")
	cmd.Flags().StringVarP(&types, "type", "t", "", "comma-separated types, e.g. book,book:page")
	cmd.Flags().StringVar(&scope, "scope", "", "comma-separated resource names to search within")
	cmd.Flags().StringVar(&strategy, "strategy", "", "index search strategy (default s1)")
	return cmd
}

// NewCacheCmd groups the cache maintenance commands.
func NewCacheCmd(deps **Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached records",
	}

	evict := &cobra.Command{
		Use:   "evict <orn>...",
		Short: "Remove cached records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := (*deps).Cache
			if c == nil {
				return ErrCacheDisabled
			}
			for _, name := range args {
				if err := c.Evict(cmd.Context(), name); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "evicted %d record(s)\n", len(args))
			return err
		},
	}

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Remove every cached record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := (*deps).Cache
			if c == nil {
				return ErrCacheDisabled
			}
			n, err := c.Purge(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "purged %d record(s)\n", n)
			return err
		},
	}

	cmd.AddCommand(evict, purge)
	return cmd
}

// NewVersionCmd prints build information.
func NewVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := map[string]string{
				"version": version.Version,
				"commit":  version.Commit,
				"date":    version.Date,
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), info)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "ornctl", version.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
