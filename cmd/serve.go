// This file implements the serve command: the HTTP API with post
// persistence.
package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kesaramb/infographedia/core/store"
	"github.com/Kesaramb/infographedia/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server.

Endpoints:
  POST /api/generate      Generate (or iterate on) an infographic
  GET  /api/posts         List recent posts
  GET  /api/posts/{id}    Fetch one post`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := LoadAppConfig(configPath)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	stop := make(chan struct{})
	defer close(stop)

	generator, err := buildGenerator(cfg, stop, logger)
	if err != nil {
		return err
	}

	posts, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer posts.Close()

	srv := server.New(generator, posts, server.Config{
		Addr:            cfg.Addr,
		GenerateTimeout: cfg.GenerateTimeout,
	}, logger)

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr, "provider", cfg.Provider)
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
