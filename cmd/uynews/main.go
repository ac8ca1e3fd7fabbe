package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deusflow/uynews/internal/ai"
	"github.com/deusflow/uynews/internal/config"
	"github.com/deusflow/uynews/internal/enrich"
	"github.com/deusflow/uynews/internal/feed"
	"github.com/deusflow/uynews/internal/logger"
	"github.com/deusflow/uynews/internal/metrics"
	"github.com/deusflow/uynews/internal/ratelimit"
	"github.com/deusflow/uynews/internal/respcache"
	"github.com/deusflow/uynews/internal/retry"
	"github.com/deusflow/uynews/internal/service"
	"github.com/deusflow/uynews/internal/storage"
	"github.com/deusflow/uynews/internal/worker"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	sources, err := feed.LoadSources(cfg.SourcesConfigPath)
	if err != nil {
		log.Fatalf("sources config error: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("storage error: %v", err)
	}
	defer store.Close()

	translator, err := newTranslator(cfg)
	if err != nil {
		log.Fatalf("translator error: %v", err)
	}

	enricher := enrich.New(store, translator, cfg.EnrichTTL, cfg.RequestTimeout, retry.Config{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Backoff:     true,
	})

	m := metrics.New()
	svc := service.New(cfg,
		feed.NewFetcher(sources, cfg.RequestTimeout),
		enricher,
		respcache.New(cfg.ResponseCacheTTL, cfg.ResponseCacheMax),
		ratelimit.New(cfg.RateLimit, cfg.RateWindow),
		m,
	)

	var buckets []worker.Bucket
	for _, country := range cfg.Countries {
		for _, r := range cfg.TimeRanges {
			buckets = append(buckets, worker.Bucket{Country: country, Range: r})
		}
	}
	w := worker.New(cfg, enricher, svc.Collect, buckets)
	svc.AttachWorker(w)
	w.Start()

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	go runStoreCleanup(cleanupCtx, store, cfg.StoreRetention)

	if cfg.MonitoringEnabled {
		go startMonitoringServer(cfg.MonitoringPort, svc, m)
	}

	logger.Info("uynews started",
		"countries", cfg.Countries,
		"sources", len(sources),
		"provider", cfg.AIProvider,
		"worker_enabled", cfg.WorkerEnabled)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	stopCleanup()
	w.Stop()
}

// openStore picks Postgres when DATABASE_URL is set, SQLite otherwise.
func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.DatabaseURL != "" {
		return storage.OpenPostgres(cfg.DatabaseURL)
	}
	return storage.OpenSQLite(cfg.SQLitePath)
}

func newTranslator(cfg *config.Config) (ai.Translator, error) {
	if cfg.AIProvider == "openai" {
		return ai.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	}
	return ai.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
}

// runStoreCleanup deletes enrichment records far past their TTL once a day.
func runStoreCleanup(ctx context.Context, store storage.Store, retention time.Duration) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Cleanup(ctx, retention)
			if err != nil {
				logger.Warn("store cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("store cleanup", "deleted", n)
			}
		}
	}
}

func startMonitoringServer(port string, svc *service.Service, m *metrics.Metrics) {
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		stats := m.GetStats()

		status := "ok"
		if !stats["is_healthy"].(bool) {
			status = "error"
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":     status,
			"last_run":   stats["last_run_time"],
			"last_error": stats["last_error"],
		})
	})

	http.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(m.GetStats())
	})

	http.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(svc.Status())
	})

	log.Printf("Starting monitoring server on port %s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Printf("Monitoring server error: %v", err)
	}
}
