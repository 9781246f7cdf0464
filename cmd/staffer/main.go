package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/example/event-staffing/internal/application"
	"github.com/example/event-staffing/internal/config"
	httptransport "github.com/example/event-staffing/internal/http"
	"github.com/example/event-staffing/internal/logging"
	"github.com/example/event-staffing/internal/metrics"
	"github.com/example/event-staffing/internal/persistence/sqlite"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "staffer",
		Short:         "Event staffing engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	root.AddCommand(newServeCommand(&configPath))
	root.AddCommand(newRunCommand(&configPath))
	root.AddCommand(newMigrateCommand(&configPath))
	return root
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the staffing API and metrics endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := sqlite.Open(cfg.SQLiteDSN)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}

			collector := metrics.NewCollector(nil)
			runService := application.NewRunService(store, collector, uuid.NewString, time.Now, cfg.LeadTimeDays, logger)
			proposalService := application.NewProposalService(store, nil, collector, time.Now, logger)

			router := httptransport.NewRouter(httptransport.RouterConfig{
				Runs:      httptransport.NewRunHandler(runService, proposalService, logger),
				Proposals: httptransport.NewProposalHandler(proposalService, logger),
			})
			handler := httptransport.RequestLogger(logger)(router)

			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			metricsServer := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
				Handler:           promhttp.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 2)
			go func() {
				logger.Info("api server listening", "addr", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()
			go func() {
				logger.Info("metrics server listening", "addr", metricsServer.Addr)
				if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case <-ctx.Done():
				logger.Info("shutting down")
			case err := <-errCh:
				logger.Error("server failed", "error", err)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
			_ = metricsServer.Shutdown(shutdownCtx)
			return nil
		},
	}
}

func newRunCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute one full wave pass and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel)

			store, err := sqlite.Open(cfg.SQLiteDSN)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()
			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}

			collector := metrics.NewCollector(nil)
			runService := application.NewRunService(store, collector, uuid.NewString, time.Now, cfg.LeadTimeDays, logger)

			result, err := runService.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: processed=%d scheduled=%d failed=%d\n",
				result.RunID, result.Processed, result.Scheduled, result.Failed)
			return nil
		},
	}
}

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bootstrap the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			store, err := sqlite.Open(cfg.SQLiteDSN)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()
			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}
