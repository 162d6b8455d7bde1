// Package server wires the dashboard: settings store, remote collaborators,
// services, the JSON API, MCP tools and the gRPC health endpoint. It also
// handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/customers"
	"github.com/dmitrijs2005/fileboard/internal/filenames"
	"github.com/dmitrijs2005/fileboard/internal/logging"
	"github.com/dmitrijs2005/fileboard/internal/push"
	"github.com/dmitrijs2005/fileboard/internal/remote"
	"github.com/dmitrijs2005/fileboard/internal/reports"
	"github.com/dmitrijs2005/fileboard/internal/server/config"
	httpapi "github.com/dmitrijs2005/fileboard/internal/server/http"
	mcpserver "github.com/dmitrijs2005/fileboard/internal/server/mcp"
	"github.com/dmitrijs2005/fileboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fileboard/internal/server/services"

	gs "github.com/dmitrijs2005/fileboard/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	settings  *services.SettingsService
	dashboard *services.DashboardService
	health    *gs.GRPCServer
	mcp       *mcpserver.Server
	api       *httpapi.API
}

// DashboardOptions turns the algorithm names of cfg into typed options.
func DashboardOptions(cfg *config.Config) (services.DashboardOptions, error) {
	strategy, err := filenames.ParseStrategy(cfg.CategoryStrategy)
	if err != nil {
		return services.DashboardOptions{}, err
	}
	rep, err := customers.ParseRepresentative(cfg.RepresentativePolicy)
	if err != nil {
		return services.DashboardOptions{}, err
	}
	match, err := customers.ParseMatchPolicy(cfg.MatchPolicy)
	if err != nil {
		return services.DashboardOptions{}, err
	}
	return services.DashboardOptions{
		Strategy:       strategy,
		Representative: rep,
		Match:          match,
		Categories:     cfg.Categories,
	}, nil
}

// RemoteOptions are the HTTP client settings shared by the file server and
// push clients.
func RemoteOptions(cfg *config.Config) remote.Options {
	opts := remote.DefaultOptions()
	opts.Timeout = cfg.RemoteTimeout
	opts.RetryMax = cfg.RemoteRetryMax
	return opts
}

// NewApp opens the settings store, applies migrations and builds every
// service. The caller owns ctx only for the duration of the call.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	opts, err := DashboardOptions(c)
	if err != nil {
		return nil, err
	}

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	remoteOpts := RemoteOptions(c)
	files := remote.NewClient(remoteOpts, logger)
	health := gs.NewGRPCServer(c.EndpointAddrGRPC, logger)

	settings := services.NewSettingsService(db, rm, c, logger)
	dashboard := services.NewDashboardService(settings, files, opts, health, logger)
	commands := services.NewCommandService(push.NewClient(c.PushURL, remoteOpts, logger), c.CommandPresets)
	exporter := reports.NewExporter(reports.Settings{
		Region:    c.S3Region,
		Endpoint:  c.S3BaseEndpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Bucket:    c.S3Bucket,
	}, logger)
	mcp := mcpserver.NewServer(dashboard, common.Version, logger)

	api := httpapi.New(httpapi.Deps{
		Auth:      services.NewAuthService(c, logger),
		Settings:  settings,
		Dashboard: dashboard,
		Files:     services.NewFilesService(settings, files, logger),
		Commands:  commands,
		Reports:   services.NewReportService(dashboard, exporter),
		MCP:       mcp.NewStreamableHTTPHandler(),
	}, logger)

	logger.Info(ctx, "app initialized",
		"driver", rm.Driver(),
		"push", c.PushURL != "",
		"reports", exporter.Enabled(),
		"strategy", opts.Strategy.String(),
	)

	return &App{
		config:    c,
		logger:    logger,
		db:        db,
		settings:  settings,
		dashboard: dashboard,
		health:    health,
		mcp:       mcp,
		api:       api,
	}, nil
}

// Handler is the JSON API including the /mcp endpoint.
func (app *App) Handler() *httpapi.API {
	return app.api
}

func (app *App) Settings() *services.SettingsService {
	return app.settings
}

func (app *App) Close() error {
	return app.db.Close()
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.health.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.api, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

// Run serves the JSON API and gRPC health until a signal arrives, ctx is
// cancelled or either server fails. The database is closed on return.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "version", common.Version)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(context.Background(), "closing database", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}

// RunMCPStdio serves the MCP tools over stdin/stdout until ctx ends.
func (app *App) RunMCPStdio(ctx context.Context) error {
	defer app.Close()
	return app.mcp.RunStdio(ctx)
}
