package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"contas/internal/config"
	apphttp "contas/internal/http"
	applog "contas/internal/log"
	"contas/internal/store"
)

type serveOptions struct {
	port string
	seed string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(opts.apply)
			if err != nil {
				return err
			}
			logger := SetupLogger(cfg, cmd.OutOrStdout())
			logger.WithComponent(applog.ComponentConfig).Info("Configuration loaded",
				"addr", cfg.Addr(),
				"log_level", cfg.LogLevel,
				"seed_file", cfg.SeedFile)

			st, err := OpenStore(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Serve(ctx, cfg, st, logger)
		},
	}
	cmd.Flags().StringVar(&opts.port, "port", "", "Port to listen on (overrides PORT)")
	cmd.Flags().StringVar(&opts.seed, "seed", "", "CSV file to pre-fill the store with (overrides SEED_FILE)")
	return cmd
}

func (o serveOptions) apply(cfg *config.Config) {
	if o.port != "" {
		cfg.Port = o.port
	}
	if o.seed != "" {
		cfg.SeedFile = o.seed
	}
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// within cfg.ShutdownTimeout.
func Serve(ctx context.Context, cfg *config.Config, st store.EntryStore, logger *applog.Logger) error {
	srv, err := apphttp.NewServer(cfg, st, logger)
	if err != nil {
		return err
	}
	logger = logger.WithComponent(applog.ComponentCLI)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting contas server",
			applog.FieldOperation, applog.OpStartup,
			"addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
