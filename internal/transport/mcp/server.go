// Package mcp exposes resource name resolution and search as MCP tools.
package mcp

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openstax/openstax-resource-names/internal/domain/resource"
	"github.com/openstax/openstax-resource-names/internal/domain/search/request"
	"github.com/openstax/openstax-resource-names/internal/domain/search/result"
	"github.com/openstax/openstax-resource-names/internal/usecase/locate"
	"github.com/openstax/openstax-resource-names/internal/version"
)

const serverName = "OpenStax Resource Names"

// Locator resolves resource names in batches.
type Locator interface {
	LocateAll(ctx context.Context, names []string, opts ...locate.Option) ([]resource.Resource, error)
}

// Searcher runs free-text search.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Result, error)
}

// LocateArgs are the arguments of the locate tool.
type LocateArgs struct {
	ORN       string `json:"orn"`
	SkipCache bool   `json:"skipCache"`
}

// SearchArgs are the arguments of the search tool.
type SearchArgs struct {
	Query    string `json:"query"`
	Limit    int    `json:"limit"`
	Type     string `json:"type"`
	Scope    string `json:"scope"`
	Strategy string `json:"strategy"`
}

// NewServer creates an MCP server with the locate and search tools.
// searcher may be nil, in which case only locate is registered.
func NewServer(locator Locator, searcher Searcher, concurrency int) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version.Version,
		server.WithToolCapabilities(false),
	)

	locateTool := mcp.NewTool("locate",
		mcp.WithDescription("Resolve OpenStax resource names (ORNs) into library, book, page, element or ancillary records"),
		mcp.WithString("orn",
			mcp.Required(),
			mcp.Description("Comma-separated resource names, e.g. 'https://openstax.org/orn/book/<uuid>'"),
		),
		mcp.WithBoolean("skipCache",
			mcp.Description("Resolve from upstream even when a cached record exists"),
		),
	)
	s.AddTool(locateTool, mcp.NewTypedToolHandler(locateHandler(locator, concurrency)))

	if searcher != nil {
		searchTool := mcp.NewTool("search",
			mcp.WithDescription("Search OpenStax resources by free text, grouped by resource type"),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Search text"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum results per resource type (default 5)"),
			),
			mcp.WithString("type",
				mcp.Description("Comma-separated resource types to search, e.g. 'book,book:page'"),
			),
			mcp.WithString("scope",
				mcp.Description("Comma-separated resource names to search within"),
			),
			mcp.WithString("strategy",
				mcp.Description("Index search strategy (default s1)"),
			),
		)
		s.AddTool(searchTool, mcp.NewTypedToolHandler(searchHandler(searcher)))
	}

	return s
}

func locateHandler(
	locator Locator, concurrency int,
) func(ctx context.Context, req mcp.CallToolRequest, args LocateArgs) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, args LocateArgs) (*mcp.CallToolResult, error) {
		names := request.SplitList(args.ORN)
		if len(names) == 0 {
			return mcp.NewToolResultError("orn is required"), nil
		}

		var opts []locate.Option
		if concurrency > 0 {
			opts = append(opts, locate.Concurrency(concurrency))
		}
		if args.SkipCache {
			opts = append(opts, locate.SkipCache())
		}

		items, err := locator.LocateAll(ctx, names, opts...)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to locate: %v", err)), nil
		}
		return jsonResult(struct {
			Items []resource.Resource `json:"items"`
		}{Items: items})
	}
}

func searchHandler(
	searcher Searcher,
) func(ctx context.Context, req mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, error) {
		req, err := request.New(
			args.Query, args.Limit,
			request.SplitList(args.Type), request.SplitList(args.Scope),
			args.Strategy,
		)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, err := searcher.Search(ctx, &req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to search: %v", err)), nil
		}
		return jsonResult(res)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
