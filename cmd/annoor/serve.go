package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	annoor "github.com/An-Noor-Team/An-Noor-Store"
	"github.com/An-Noor-Team/An-Noor-Store/internal/cli"
	"github.com/An-Noor-Team/An-Noor-Store/internal/presentation/tui"
	httpAdapter "github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Serves the catalog, per-session carts and checkout as a JSON API, with live cart diffs over SSE.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		logger, err := cli.NewLogger(cfg.Log.Level, debug)
		if err != nil {
			return err
		}
		addr := cfg.HTTP.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		streams := httpAdapter.NewStreamManager(logger)
		rt, err := cli.NewRuntime(cfg, cli.Options{Debug: debug, Stdout: cmd.OutOrStdout(), Hooks: streams.Hooks()})
		if err != nil {
			return err
		}
		defer rt.Close()

		handler := httpAdapter.NewHandler(rt.Shop,
			httpAdapter.WithStreams(streams),
			httpAdapter.WithMetrics(rt.Metrics.Handler()),
			httpAdapter.WithMerchant(cfg.Merchant),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		if tui.IsTerminal(cmd.OutOrStdout()) {
			tui.PrintBanner(cmd.OutOrStdout(), annoor.Version)
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			cli.PrintSystemMessage(cmd.OutOrStdout(), "Starting An Noor Store API on %s", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			cli.PrintSystemMessage(cmd.OutOrStdout(), "Start shutdown... Signal: %v", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			cli.PrintSystemMessage(cmd.OutOrStdout(), "An Noor Store API stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (overrides http.addr)")
}
