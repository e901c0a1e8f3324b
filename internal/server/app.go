// Package server initializes and runs the TAXII server.
// It selects the storage backend, hydrates it from object storage and serves
// the TAXII HTTP API and the gRPC health endpoint until a signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dmitrijs2005/taxiikeeper/internal/logging"
	"github.com/dmitrijs2005/taxiikeeper/internal/query"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/config"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/metrics"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/taxiikeeper/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	metrics     *metrics.Metrics
	repomanager repomanager.RepositoryManager
	http        *httpapi.HTTPServer
	health      *gs.GRPCServer
	hydration   *services.HydrationService
}

var newPostgresManager = func(dsn string) (repomanager.RepositoryManager, error) {
	return repomanager.NewPostgresRepositoryManager(dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(c.LogFormat, os.Stdout)

	rm, err := newRepositoryManager(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	pipeline := query.NewPipeline(c.DefaultSpecVersion)

	cs := services.NewCollectionService(rm, mediaTypes(c.DefaultSpecVersion))
	objs := services.NewObjectService(rm, pipeline, m)

	app := &App{
		config:      c,
		logger:      logger,
		metrics:     m,
		repomanager: rm,
		http:        httpapi.NewHTTPServer(c.EndpointAddrHTTP, httpapi.NewHandler(c, cs, objs, logger, m), logger),
		hydration:   services.NewHydrationService(rm, c, logger, m),
	}
	if c.EndpointAddrGRPC != "" {
		app.health = gs.NewGRPCServer(c.EndpointAddrGRPC, logger)
	}

	return app, nil
}

func newRepositoryManager(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		logger.Info(ctx, "No database configured, using in-memory store")
		return repomanager.NewInMemoryRepositoryManager(), nil
	}

	rm, err := newPostgresManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return rm, nil
}

// mediaTypes lists the STIX media types matching the configured spec_version tokens.
func mediaTypes(specVersion string) []string {
	var res []string
	for _, v := range strings.Split(specVersion, ",") {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, "application/stix+json;version="+v)
		}
	}
	return res
}

func (app *App) markReady() {
	if app.health != nil {
		app.health.SetServing(true)
	}
}

// Run serves until ctx is done, SIGINT/SIGTERM/SIGQUIT arrives or one of the
// components fails.
func (app *App) Run(ctx context.Context) error {

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer func() {
		if err := app.repomanager.Close(); err != nil {
			app.logger.Error(ctx, "Error closing store", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.http.Run(ctx)
	})

	if app.health != nil {
		g.Go(func() error {
			return app.health.Run(ctx)
		})
	}

	g.Go(func() error {
		return app.hydration.Run(ctx, app.markReady)
	})

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}
