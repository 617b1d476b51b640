package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mizanhq/mizan/internal/api"
	"github.com/mizanhq/mizan/internal/config"
	"github.com/mizanhq/mizan/internal/crawler"
	"github.com/mizanhq/mizan/internal/embedding"
	"github.com/mizanhq/mizan/internal/fetcher"
	"github.com/mizanhq/mizan/internal/logger"
	"github.com/mizanhq/mizan/internal/repository"
	"github.com/mizanhq/mizan/internal/retrieval"
	"github.com/mizanhq/mizan/internal/scheduler"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments.
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(&logger.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		LogFile: cfg.Logging.File,
	})
	logger.SetDefault(appLogger)

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatalf("Failed to initialize database")
	}

	store := repository.NewGormStore(db)
	fetch := fetcher.New(&fetcher.Config{
		UserAgent:     cfg.Crawler.UserAgent,
		Timeout:       cfg.Crawler.FetchTimeout,
		InsecureHosts: cfg.Crawler.InsecureHosts,
	})
	// A typed nil *Client must not become a non-nil Provider interface.
	var embedder embedding.Provider
	if client := embedding.New(&embedding.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	}); client != nil {
		embedder = client
	}

	crawl := crawler.New(store, fetch, embedder, crawler.Config{
		Seeds:           cfg.Crawler.Seeds,
		MaxPagesPerRun:  cfg.Crawler.MaxPagesPerRun,
		DiscoveryDelay:  cfg.Crawler.DiscoveryDelay,
		PageDelay:       cfg.Crawler.PageDelay,
		EmbedBatchDelay: cfg.Crawler.EmbedBatchDelay,
		MinIndexChars:   cfg.Crawler.MinIndexChars,
		MaxChunkChars:   cfg.Crawler.MaxChunkChars,
		ChunkOverlap:    cfg.Crawler.ChunkOverlap,
		EmbedBatchSize:  cfg.Embedding.BatchSize,
	})

	engine := retrieval.New(store, fetch, embedder, retrieval.Config{
		TopK:            cfg.Search.TopK,
		ScanLimit:       cfg.Search.ScanLimit,
		VectorThreshold: cfg.Search.VectorThreshold,
		SerperAPIKey:    cfg.Search.SerperAPIKey,
		GoogleAPIKey:    cfg.Search.GoogleAPIKey,
		GoogleEngineID:  cfg.Search.GoogleEngineID,
	})

	router := api.SetupRouter(engine, crawl, store, &cfg.Server)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	var sched *scheduler.Scheduler
	if cfg.Crawler.Enabled && cfg.Crawler.IntervalMinutes > 0 {
		sched = scheduler.New(crawl, time.Duration(cfg.Crawler.IntervalMinutes)*time.Minute)
		sched.Start(context.Background())
	}

	go func() {
		appLogger.Infof("Starting API server: port=%d, mode=%s", cfg.Server.Port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatalf("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Infof("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatalf("Server forced to shutdown")
	}

	appLogger.Infof("Server exited")
}
