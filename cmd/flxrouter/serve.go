package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/flxrouter/internal/demo"
	"github.com/vango-dev/flxrouter/internal/server"
	"github.com/vango-dev/flxrouter/internal/watch"
	"github.com/vango-dev/flxrouter/pkg/route"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route table over HTTP and WebSocket",
		Long: `Serve pages for every route and drive navigation from a WebSocket
session per browser tab.

With --memory the last pushed URL of each browser is kept in the configured
store (memory, redis, sqlite or s3) and restored on the next visit. With
--watch the route file is reloaded into every live session when it changes.

Examples:
  flxrouter serve
  flxrouter serve --addr=:3000 --routes=routes.yaml --watch
  flxrouter serve --memory --store=sqlite --sqlite-path=routes.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd)
		},
	}

	f := cmd.Flags()
	f.String("addr", "", "Address to listen on (default :8080)")
	f.Bool("pretty", false, "Pretty-print rendered HTML")
	f.String("entry", "", "Route shown when nothing else applies (default /)")
	f.Bool("history", true, "Mirror pushed routes in the browser history")
	f.Bool("memory", false, "Persist and restore the last route per browser")
	f.Bool("watch", false, "Reload the route file when it changes")
	f.String("store", "", "Last-route store: memory, redis, sqlite, s3")
	f.String("store-key", "", "Key prefix for stored routes (default route)")
	f.String("redis-addr", "", "Redis address for --store=redis")
	f.String("sqlite-path", "", "Database file for --store=sqlite")
	f.String("s3-bucket", "", "Bucket for --store=s3")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := cfg.Logger(cmd.ErrOrStderr())

	routes, reg, err := loadRoutes(cfg)
	if err != nil {
		return err
	}

	store, closeStore, err := server.OpenStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("store close failed", "error", err)
		}
	}()

	srv, err := server.New(cfg, routes,
		server.WithLogger(logger),
		server.WithStore(store),
		server.WithShell(demo.Shell, demo.Title),
		server.WithProvide(demo.Provide(demo.DefaultDirectory())),
	)
	if err != nil {
		return err
	}

	if cfg.Router.Watch {
		w, err := watch.New(watch.Config{File: cfg.Router.RoutesFile, Logger: logger})
		if err != nil {
			return err
		}
		reloader := watch.NewReloader(reg, func(routes []*route.Route) {
			if err := srv.SetRoutes(routes); err != nil {
				logger.Error("route table rejected", "error", err)
			}
		}, logger)
		w.OnChange(reloader.Reload)

		go func() {
			if err := w.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("route file watcher stopped", "error", err)
			}
		}()
		defer w.Stop()
	}

	success(cmd.OutOrStdout(), "Serving %d routes on %s", len(routes), cfg.Server.Addr)
	return srv.Run(ctx)
}
