package main

import (
	"context"
	"flag"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/openstax/openstax-resource-names/internal/app"
	"github.com/openstax/openstax-resource-names/internal/config"
	logpkg "github.com/openstax/openstax-resource-names/internal/logger"
	mcpTransport "github.com/openstax/openstax-resource-names/internal/transport/mcp"
	"github.com/openstax/openstax-resource-names/internal/version"
)

func main() {
	httpAddr := flag.String("http", "", "serve streamable HTTP on this address (e.g. ':8081') instead of stdio")
	endpoint := flag.String("endpoint", "/mcp", "HTTP endpoint path")
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// stdout carries the stdio protocol, so logs go to stderr.
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	svc, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to wire services", zap.Error(err))
	}
	defer svc.Close()

	s := mcpTransport.NewServer(svc.Engine, svc.Search, cfg.Locate.LookupConcurrency)

	if *httpAddr != "" {
		logger.Info("Starting MCP server",
			zap.String("version", version.Version),
			zap.String("addr", *httpAddr),
			zap.String("endpoint", *endpoint),
		)
		httpServer := server.NewStreamableHTTPServer(s, server.WithEndpointPath(*endpoint))
		if err := httpServer.Start(*httpAddr); err != nil {
			logger.Fatal("MCP HTTP server error", zap.Error(err))
		}
		return
	}

	logger.Info("Starting MCP server in stdio mode", zap.String("version", version.Version))
	if err := server.ServeStdio(s); err != nil {
		logger.Fatal("MCP stdio server error", zap.Error(err))
	}
}
