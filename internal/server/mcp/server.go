// Package mcp exposes read-only dashboard queries as Model Context Protocol
// tools.
package mcp

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/fileboard/internal/customers"
	"github.com/dmitrijs2005/fileboard/internal/logging"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Dashboard is the query side the tools read from.
type Dashboard interface {
	DefaultMatch() customers.MatchPolicy
	Recent(ctx context.Context, n int) ([]*models.CustomerRecord, error)
	Overview(ctx context.Context) (models.Overview, error)
	Customer(ctx context.Context, query string, policy customers.MatchPolicy) (*models.CustomerRecord, error)
	Statistics(ctx context.Context, days int) (models.Statistics, error)
}

type Server struct {
	mcpServer *mcp.Server
	dashboard Dashboard
	log       logging.Logger
}

func NewServer(d Dashboard, version string, log logging.Logger) *Server {
	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: "fileboard", Version: version}, nil),
		dashboard: d,
		log:       log.With("module", "mcp"),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "lookup_customer",
		Description: "Find one customer by identifier (exact, prefix or contains match) and list its newest file per category.",
	}, s.handleLookup)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_customers",
		Description: "List customers, most recently active first.",
	}, s.handleList)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "customer_statistics",
		Description: "Daily upload counts and per-category totals for the last N days.",
	}, s.handleStatistics)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "overview",
		Description: "Customer, file and archive counts of the current listing.",
	}, s.handleOverview)
}

// RunStdio serves the tools over stdin/stdout until ctx ends.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) NewStreamableHTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}
