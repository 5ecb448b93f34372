package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/onepagerhq/onepager/internal/server"
	"github.com/onepagerhq/onepager/pkg/cache"
	"github.com/onepagerhq/onepager/pkg/pipeline"
	"github.com/onepagerhq/onepager/pkg/store"
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		mongoURI   string
		mongoDB    string
		redisURL   string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline and a page store over HTTP",
		Long: `Serve the pipeline and a page store over HTTP.

The serve command starts an HTTP API with endpoints for each pipeline stage
(generate, layout, render) and CRUD routes for persisted pages. Pages are
kept in memory by default; pass --mongo-uri to persist them in MongoDB.

Stage results are cached on disk by default; pass --redis-url to share the
cache between instances, or --no-cache to disable caching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), serveParams{
				addr:       addr,
				configPath: configPath,
				mongoURI:   mongoURI,
				mongoDB:    mongoDB,
				redisURL:   redisURL,
				noCache:    noCache,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8787", "listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "page configuration file (TOML)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI for page persistence")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", appName, "MongoDB database name")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "Redis URL for a shared stage cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable stage caching")

	return cmd
}

type serveParams struct {
	addr       string
	configPath string
	mongoURI   string
	mongoDB    string
	redisURL   string
	noCache    bool
}

// runServe wires up the runner, store, and HTTP server, then blocks until
// the context is cancelled.
func (c *CLI) runServe(ctx context.Context, p serveParams) error {
	cfg, err := loadConfig(p.configPath)
	if err != nil {
		return err
	}

	stageCache, err := c.newServeCache(ctx, p)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(stageCache, nil, c.Logger)
	defer runner.Close()

	pageStore, err := c.newServeStore(ctx, p)
	if err != nil {
		return err
	}
	defer pageStore.Close(context.Background())

	srv := &http.Server{
		Addr: p.addr,
		Handler: server.New(server.Options{
			Runner: runner,
			Store:  pageStore,
			Config: cfg,
			APIKey: os.Getenv(apiKeyEnv),
			Logger: c.Logger,
		}).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Infof("Listening on %s", p.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newServeCache builds the stage cache for serve: Redis when configured,
// the local file cache otherwise.
func (c *CLI) newServeCache(ctx context.Context, p serveParams) (cache.Cache, error) {
	if p.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, p.redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return rc, nil
	}
	return newCache(p.noCache)
}

// newServeStore builds the page store for serve: MongoDB when configured,
// in-memory otherwise.
func (c *CLI) newServeStore(ctx context.Context, p serveParams) (store.Store, error) {
	if p.mongoURI != "" {
		ms, err := store.NewMongoStore(ctx, p.mongoURI, p.mongoDB)
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		c.Logger.Infof("Persisting pages to MongoDB database %q", p.mongoDB)
		return ms, nil
	}
	c.Logger.Warn("No --mongo-uri given, pages are kept in memory only")
	return store.NewMemoryStore(), nil
}
