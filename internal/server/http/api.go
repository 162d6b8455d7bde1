// Package httpapi serves the dashboard JSON API.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fileboard/internal/customers"
	"github.com/dmitrijs2005/fileboard/internal/logging"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(token string) (string, error)
	TokenValidity() time.Duration
}

type Settings interface {
	ServerURL(ctx context.Context) (string, error)
	SetServerURL(ctx context.Context, raw string) (string, error)
	History(ctx context.Context, limit int) ([]models.Setting, error)
	Ready(ctx context.Context) error
}

type Dashboard interface {
	DefaultMatch() customers.MatchPolicy
	Customers(ctx context.Context) ([]*models.CustomerRecord, error)
	Recent(ctx context.Context, n int) ([]*models.CustomerRecord, error)
	Overview(ctx context.Context) (models.Overview, error)
	Customer(ctx context.Context, query string, policy customers.MatchPolicy) (*models.CustomerRecord, error)
	Statistics(ctx context.Context, days int) (models.Statistics, error)
}

type Files interface {
	CategoryDownloadURL(ctx context.Context, id, category string) (string, error)
	ArchiveDownloadURL(ctx context.Context, id string) (string, error)
	DeleteCategory(ctx context.Context, id, category string) (string, error)
	DeleteArchive(ctx context.Context, id string) (string, error)
	DeleteCustomer(ctx context.Context, id string) (string, error)
}

type Commands interface {
	Presets() []models.CommandPreset
	Send(ctx context.Context, id, title, body string) error
}

type Reports interface {
	Export(ctx context.Context, days int) (string, string, error)
}

// Deps are the services behind the API. MCP is optional.
type Deps struct {
	Auth      Authenticator
	Settings  Settings
	Dashboard Dashboard
	Files     Files
	Commands  Commands
	Reports   Reports
	MCP       http.Handler
}

// API hosts the dashboard endpoints.
type API struct {
	deps    Deps
	log     logging.Logger
	handler http.Handler
}

func New(deps Deps, log logging.Logger) *API {
	a := &API{deps: deps, log: log.With("module", "http")}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", a.handleHealthz)
	mux.HandleFunc("GET /readyz", a.handleReadyz)
	mux.HandleFunc("POST /api/v1/login", a.handleLogin)
	mux.HandleFunc("POST /api/v1/logout", a.handleLogout)

	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, a.requireAuth(h))
	}
	protected("GET /api/v1/settings/server-url", a.handleGetServerURL)
	protected("PUT /api/v1/settings/server-url", a.handleSetServerURL)
	protected("GET /api/v1/settings/server-url/history", a.handleServerURLHistory)
	protected("GET /api/v1/overview", a.handleOverview)
	protected("GET /api/v1/customers", a.handleCustomers)
	protected("GET /api/v1/customers/recent", a.handleRecent)
	protected("GET /api/v1/customers/search", a.handleSearch)
	protected("GET /api/v1/customers/{id}", a.handleCustomer)
	protected("DELETE /api/v1/customers/{id}", a.handleDeleteCustomer)
	protected("GET /api/v1/customers/{id}/files/{category}", a.handleDownloadCategory)
	protected("DELETE /api/v1/customers/{id}/files/{category}", a.handleDeleteCategory)
	protected("GET /api/v1/customers/{id}/archive", a.handleDownloadArchive)
	protected("DELETE /api/v1/customers/{id}/archive", a.handleDeleteArchive)
	protected("POST /api/v1/customers/{id}/commands", a.handleSendCommand)
	protected("GET /api/v1/statistics", a.handleStatistics)
	protected("GET /api/v1/commands", a.handleCommandPresets)
	protected("POST /api/v1/reports", a.handleExportReport)
	if deps.MCP != nil {
		mux.Handle("/mcp", a.requireAuth(deps.MCP))
	}

	a.handler = a.accessLog(mux)
	return a
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
