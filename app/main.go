package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/diynews/backend/app/api"
	"github.com/diynews/backend/app/cfg"
	"github.com/diynews/backend/app/database"
	"github.com/diynews/backend/app/enrich"
	"github.com/diynews/backend/app/feed"
	"github.com/diynews/backend/app/pipeline"
	"github.com/diynews/backend/app/subscription"
)

func main() {
	_ = godotenv.Load()

	c, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if c == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if c.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting DIY News sync server", "version", c.Version)

	db, err := database.NewConnection(c.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", c.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", c.DBPath, "migration_version", version, "dirty", dirty)

	subscriptionRepo := database.NewSubscriptionRepository(db)
	postRepo := database.NewPostRepository(db)

	if err := seedSubscriptions(c.SubscriptionsDir, subscriptionRepo); err != nil {
		slog.Error("Failed to seed subscriptions", "error", err)
		os.Exit(1)
	}

	analyzer := enrich.NewAnalyzer(c.OpenAIAPIKey)

	newFetcher := func(now time.Time) pipeline.Fetcher {
		registry := feed.NewRegistry(feed.Options{
			Cutoff:        feed.Cutoff(now, c.DaysToFetch),
			MaxEntries:    c.MaxEntries,
			Timeout:       time.Duration(c.FetchTimeout) * time.Second,
			UserAgent:     c.UserAgent,
			YouTubeAPIKey: c.YouTubeAPIKey,
			TwitterAPIKey: c.TwitterAPIKey,
		})
		return feed.NewAggregator(registry)
	}

	runner := pipeline.NewRunner(pipeline.Config{
		OpenAIAPIKey: c.OpenAIAPIKey,
		CallTimeout:  time.Duration(c.FetchTimeout) * time.Second,
	}, subscriptionRepo, postRepo, analyzer, newFetcher, pipeline.NewStatus())

	handler := api.NewHandler(runner, c.Version)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", c.Port)
		slog.Info("Endpoints: POST /api/sync, GET /api/status, GET /api/health")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// seedSubscriptions upserts the YAML seed files into the store so the
// pipeline has sources to work with on a fresh database.
func seedSubscriptions(dir string, repo *database.SubscriptionRepository) error {
	loader := subscription.NewLoader(dir)
	seeds, err := loader.LoadAll()
	if err != nil {
		return err
	}

	for _, seed := range seeds {
		id, err := repo.Upsert(database.Subscription{
			Name:      seed.Name,
			Platform:  seed.Platform,
			SourceURL: seed.URL,
			AccountID: seed.AccountID,
			OwnerID:   seed.OwnerID,
		})
		if err != nil {
			return fmt.Errorf("failed to register subscription %s: %w", seed.Name, err)
		}
		slog.Info("Registered subscription", "name", seed.Name, "platform", seed.Platform, "id", id)
	}

	if len(seeds) > 0 {
		slog.Info("Subscriptions seeded", "count", len(seeds))
	}

	return nil
}
