package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/paperpharmacy/paperpharmacy/internal/handlers"
	"github.com/paperpharmacy/paperpharmacy/internal/recommend"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the recommendation web server",
		Long: `Starts the HTTP API and serves the static web client.

Endpoints:
  POST /api/recommendations    three books for a mood
  GET  /api/cover?isbn=        catalog cover lookup
  GET  /api/search?title=      best catalog match for a title
  /api/sessions/...            server-held form and history state
  GET  /healthcheck, /metrics`,
		Example: `  # Start server on default port 8888
  paperpharmacy serve

  # Start server on custom port with a config file
  paperpharmacy serve --port 3000 --config paperpharmacy.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			assembler, cat, err := recommend.New(cfg)
			if err != nil {
				return err
			}
			if cfg.AladinTTBKey == "" {
				slog.Warn("ALADIN_TTB_KEY not set, catalog lookups will fail")
			}

			handler := handlers.New(assembler, cat, cfg.StaticDir)

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(cfg.CORSAllowedOrigins),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Paper Pharmacy available", "addr", addr, "url", "http://localhost"+addr, "provider", cfg.Provider, "model", cfg.Model)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default from config or 8888)")

	return cmd
}
