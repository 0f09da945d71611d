package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpadapter "github.com/aretw0/hydroplant/pkg/adapters/http"
	mcpadapter "github.com/aretw0/hydroplant/pkg/adapters/mcp"
)

// ShutdownTimeout bounds the graceful HTTP shutdown.
const ShutdownTimeout = 5 * time.Second

// Status silently reconnects, if the wallet allows it, and prints the card.
func Status(ctx context.Context, rt *Runtime) error {
	if !rt.App.Start(ctx) {
		rt.Logger.Debug("No authorized account")
	}
	rt.Console.PrintStatus(rt.View.State())
	return nil
}

// Connect asks the wallet for access and prints the card.
func Connect(ctx context.Context, rt *Runtime) error {
	if err := rt.App.Connect(ctx); err != nil {
		return err
	}
	rt.Console.PrintStatus(rt.View.State())
	return nil
}

// Water waters the plant times times, stopping at the first failure.
func Water(ctx context.Context, rt *Runtime, times int) error {
	if times < 1 {
		return fmt.Errorf("--times must be at least 1, got %d", times)
	}
	rt.App.Start(ctx)
	for i := 0; i < times; i++ {
		if err := rt.App.Water(ctx); err != nil {
			return err
		}
	}
	rt.Console.PrintStatus(rt.View.State())
	return nil
}

// Serve runs the HTTP API until ctx is cancelled.
func Serve(ctx context.Context, rt *Runtime) error {
	rt.App.Start(ctx)

	opts := []httpadapter.Option{httpadapter.WithLogger(rt.Logger.With("component", "http"))}
	if rt.Registry != nil {
		opts = append(opts, httpadapter.WithMetrics(rt.Registry))
	}
	srv := &http.Server{
		Addr:    rt.Config.Listen,
		Handler: httpadapter.NewHandler(rt.App, rt.View, opts...),
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		rt.Logger.Info("HTTP server listening", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		rt.Logger.Info("Shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

// ServeMCP runs the MCP server on stdio. The runtime must not print to stdout.
func ServeMCP(ctx context.Context, rt *Runtime) error {
	rt.App.Start(ctx)
	srv := mcpadapter.NewServer(rt.App, rt.View, mcpadapter.WithLogger(rt.Logger.With("component", "mcp")))
	rt.Logger.Info("Starting MCP server (stdio)")
	return srv.ServeStdio()
}
