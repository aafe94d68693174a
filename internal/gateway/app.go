package gateway

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/kart-io/logger"
	"github.com/kart-io/version"

	"github.com/kart-io/mongo-gateway/internal/connection"
	"github.com/kart-io/mongo-gateway/pkg/app"
)

// disconnectTimeout bounds the connection teardown during shutdown.
const disconnectTimeout = 10 * time.Second

// NewApp creates the gateway application with its CLI surface.
func NewApp() *app.App {
	opts := NewServerOptions()

	return app.NewApp(
		app.WithName("mongo-gateway"),
		app.WithShortDescription("MongoDB gateway speaking the Model Context Protocol"),
		app.WithDescription("mongo-gateway exposes MongoDB operations as MCP tools over stdio.\n"+
			"It manages a single MongoDB connection with health monitoring and an\n"+
			"optional read-only policy that rejects writes and unsafe aggregation stages."),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return run(opts)
		}),
	)
}

// run is the gateway main loop: initialize logging, build the connection
// manager, serve MCP over stdio until the process is signalled.
func run(opts *ServerOptions) error {
	if err := opts.Log.Init(); err != nil {
		return err
	}

	logger.Infow("starting mongo-gateway",
		"version", version.Get().GitVersion,
		"mongodb", opts.MongoDB.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mgr := connection.NewManager(opts.MongoDB)

	if opts.ConnectOnStartup {
		// A failed startup dial is not fatal: the server comes up
		// disconnected and the failure is visible via connection-info.
		if err := mgr.Connect(ctx, ""); err != nil {
			logger.Warnw("startup connect failed, serving disconnected", "error", err)
		}
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		if err := mgr.Disconnect(shutdownCtx, "server shutdown"); err != nil {
			logger.Warnw("disconnect on shutdown failed", "error", err)
		}
	}()

	srv := NewServer(version.Get().GitVersion, mgr)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Infow("mongo-gateway stopped")
	return nil
}
