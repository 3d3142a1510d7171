// ABOUTME: serve command: browser viewer for notebooks and hierarchies
// ABOUTME: Runs the webview routes until interrupted, then shuts down gracefully

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389/coven-notebook/internal/markdown"
	"github.com/2389/coven-notebook/internal/webview"
)

func newServeCmd(e *env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve notebooks and agent hierarchies to a browser",
		Long: `Serve a local web viewer. Regions opened or closed in the browser are saved
to the same view state the terminal commands use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = e.cfg.Server.Addr
			}
			return runServe(cmd.Context(), e, addr, func(a net.Addr) {
				fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", a)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// runServe blocks until ctx is canceled or the server fails. listening is
// called once the listener is bound.
func runServe(ctx context.Context, e *env, addr string, listening func(net.Addr)) error {
	st, err := e.openStore()
	if err != nil {
		return err
	}

	theme, err := markdown.ParseTheme(e.cfg.Render.Theme)
	if err != nil {
		return err
	}

	viewer := webview.New(e.client(), st, webview.Config{
		Theme:     theme,
		CacheTTL:  e.cfg.Server.CacheTTL,
		CacheSize: e.cfg.Server.CacheSize,
	}, e.logger)
	defer viewer.Close()

	mux := http.NewServeMux()
	viewer.RegisterRoutes(mux)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	e.logger.Info("viewer listening", "addr", ln.Addr().String())
	if listening != nil {
		listening(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		e.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		e.logger.Error("server error", "error", serverErr)
	}

	// The original context is already canceled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}
