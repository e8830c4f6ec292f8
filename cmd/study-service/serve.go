package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"study-app/internal/economy"
	"study-app/internal/httpapi"
	"study-app/internal/metrics"
)

func serveCommand() *cobra.Command {
	var (
		addr string
		seed bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return serveRun(cmd.Context(), seed)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().BoolVar(&seed, "seed", false, "seed the catalog before serving")
	return cmd
}

func serveRun(parent context.Context, seed bool) error {
	logger, err := commonRun()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := httpapi.RouterOptions{Logger: logger, Health: store.Ping}

	var economyMetrics *metrics.EconomyMetrics
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		economyMetrics = metrics.NewEconomyMetrics()
		economyMetrics.Register(registry)
		opts.Gatherer = registry
	}

	service := economy.NewService(store, logger, economyMetrics)
	if seed {
		if _, err := service.Seed(ctx); err != nil {
			return err
		}
	}

	opts.Identity = httpapi.NewIdentityVerifier(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if opts.Identity == nil {
		logger.Warn("auth.jwtSecret is empty, trusting userId from request bodies")
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpapi.NewRouter(service, opts),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("study-service listening",
			"addr", cfg.Server.Addr,
			"driver", cfg.Database.Driver,
			"metrics", cfg.Metrics.Enabled,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
