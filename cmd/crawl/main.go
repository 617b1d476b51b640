package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mizanhq/mizan/internal/config"
	"github.com/mizanhq/mizan/internal/crawler"
	"github.com/mizanhq/mizan/internal/embedding"
	"github.com/mizanhq/mizan/internal/fetcher"
	"github.com/mizanhq/mizan/internal/logger"
	"github.com/mizanhq/mizan/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", os.Getenv("CONFIG_PATH"), "Path to config file")
		seeds      = flag.String("seeds", "", "Comma-separated seed URLs (overrides config)")
		maxPages   = flag.Int("max-pages", 0, "Page budget for this run (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
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

	var embedder embedding.Provider
	if client := embedding.New(&embedding.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	}); client != nil {
		embedder = client
	}

	crawlCfg := crawler.Config{
		Seeds:           cfg.Crawler.Seeds,
		MaxPagesPerRun:  cfg.Crawler.MaxPagesPerRun,
		DiscoveryDelay:  cfg.Crawler.DiscoveryDelay,
		PageDelay:       cfg.Crawler.PageDelay,
		EmbedBatchDelay: cfg.Crawler.EmbedBatchDelay,
		MinIndexChars:   cfg.Crawler.MinIndexChars,
		MaxChunkChars:   cfg.Crawler.MaxChunkChars,
		ChunkOverlap:    cfg.Crawler.ChunkOverlap,
		EmbedBatchSize:  cfg.Embedding.BatchSize,
	}
	if *seeds != "" {
		crawlCfg.Seeds = strings.Split(*seeds, ",")
	}
	if *maxPages > 0 {
		crawlCfg.MaxPagesPerRun = *maxPages
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stats, err := crawler.New(store, fetch, embedder, crawlCfg).Run(ctx)
	if err != nil {
		appLogger.WithError(err).Fatalf("Crawl run failed")
	}

	appLogger.Infof("Crawl run complete: run_id=%s, pages=%d, updated=%d",
		stats.RunID, stats.PagesCrawled, stats.DocumentsUpdated)
}
