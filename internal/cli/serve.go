package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hallgen/hallgen/internal/api"
	"github.com/hallgen/hallgen/pkg/cache"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		ttl      time.Duration
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the plan-serving HTTP API",
		Long: `Run the plan-serving HTTP API.

The server compiles facility configurations into plans on demand and renders
top-down site plans as SVG. Results are memoized through the configured cache;
point --redis at a Redis instance to share the cache across replicas, or omit
it to use the local file cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisURL, ttl, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for a shared cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().DurationVar(&ttl, "ttl", api.DefaultTTL, "cache TTL for plans and artifacts")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe starts the HTTP server and blocks until interrupted.
func (c *CLI) runServe(ctx context.Context, addr, redisURL string, ttl time.Duration, noCache bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := c.newServeCache(ctx, redisURL, noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := api.NewServer(store, c.Logger, api.WithTTL(ttl))
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Infof("Serving on %s", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	printInfo("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// newServeCache picks the cache backend for the server: Redis when a URL is
// given, otherwise the local file cache.
func (c *CLI) newServeCache(ctx context.Context, redisURL string, noCache bool) (cache.Cache, error) {
	if redisURL != "" {
		store, err := cache.NewRedisCache(ctx, redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Info("Using Redis cache")
		return store, nil
	}
	return newCache(noCache)
}
