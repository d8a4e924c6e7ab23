package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/allamaprabhu/management-api/app"
	"github.com/allamaprabhu/management-api/config"
	"github.com/allamaprabhu/management-api/routes"
)

type serveOptions struct {
	seed    bool
	migrate bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.seed, "seed", false, "Create the bootstrap superadmin before serving")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", true, "Apply pending database migrations before serving")

	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, logger, err := loadRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting management API",
		zap.String("version", version),
		zap.String("environment", cfg.Environment),
	)

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(context.Background()); err != nil {
			logger.Error("error during shutdown", zap.Error(err))
		}
	}()

	if opts.migrate {
		if err := deps.DB.RunMigrations(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if opts.seed {
		if _, _, err := deps.AdminService.SeedSuperadmin(ctx, cfg.Seed); err != nil {
			return fmt.Errorf("failed to seed superadmin: %w", err)
		}
	}

	srv := newHTTPServer(cfg.Server, routes.SetupRoutes(deps))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serveHTTP(ctx, srv, cfg.Server, logger)
}

func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}
}

// serveHTTP runs srv until ctx is cancelled, then drains in-flight requests
// for at most cfg.ShutdownTimeout.
func serveHTTP(ctx context.Context, srv *http.Server, cfg config.ServerConfig, logger *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.Bool("tls", cfg.TLS.Enabled),
		)

		var err error
		if cfg.TLS.Enabled {
			err = srv.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server listen: %w", err)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
