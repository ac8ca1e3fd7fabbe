// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

type Config struct {
	// Sources
	SourcesConfigPath string
	Countries         []string // country tags served by the query API
	TimeRanges        []string // accepted time-range filter values

	// Query settings
	DefaultLimit int
	MaxLimit     int

	// AI settings
	AIProvider   string // "gemini" or "openai"
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string

	// Storage: DATABASE_URL selects Postgres, otherwise SQLite at SQLitePath.
	DatabaseURL    string
	SQLitePath     string
	EnrichTTL      time.Duration
	StoreRetention time.Duration

	// Response cache
	ResponseCacheTTL time.Duration
	ResponseCacheMax int

	// Rate limiter for the enrichment endpoint
	RateLimit  int
	RateWindow time.Duration

	// Worker controls
	WorkerEnabled     bool
	WorkerBatchSize   int
	WorkerMaxPerCycle int
	WorkerMaxBucket   int
	WorkerScanTop     int

	// App settings
	Debug          bool
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration

	// Monitoring HTTP endpoints
	MonitoringEnabled bool
	MonitoringPort    string

	// workerInterval is atomic so it can be retuned at runtime; the worker
	// re-reads it at the top of every cycle.
	workerInterval atomic.Int64
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		SourcesConfigPath: getEnvOrDefault("SOURCES_CONFIG_PATH", "configs/sources.yaml"),
		Countries:         splitList(getEnvOrDefault("COUNTRIES", "uy")),
		TimeRanges:        []string{"24h", "3d", "7d"},
		DefaultLimit:      getEnvIntOrDefault("DEFAULT_LIMIT", 30),
		MaxLimit:          getEnvIntOrDefault("MAX_LIMIT", 100),

		AIProvider:   getEnvOrDefault("AI_PROVIDER", "gemini"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),

		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getEnvOrDefault("SQLITE_PATH", "data/enrich_cache.sqlite3"),
		EnrichTTL:      time.Duration(getEnvIntOrDefault("CACHE_TTL_SECONDS", 7*24*3600)) * time.Second,
		StoreRetention: time.Duration(getEnvIntOrDefault("STORE_RETENTION_DAYS", 30)) * 24 * time.Hour,

		ResponseCacheTTL: time.Duration(getEnvIntOrDefault("RESPONSE_CACHE_TTL_SECONDS", 120)) * time.Second,
		ResponseCacheMax: getEnvIntOrDefault("RESPONSE_CACHE_MAX_ENTRIES", 256),

		RateLimit:  getEnvIntOrDefault("ENRICH_RATE_LIMIT", 10),
		RateWindow: time.Duration(getEnvIntOrDefault("ENRICH_RATE_WINDOW_SECONDS", 60)) * time.Second,

		WorkerEnabled:     getEnvOrDefault("WORKER_ENABLED", "1") == "1",
		WorkerBatchSize:   getEnvIntOrDefault("WORKER_BATCH_SIZE", 20),
		WorkerMaxPerCycle: getEnvIntOrDefault("WORKER_MAX_PER_CYCLE", 60),
		WorkerMaxBucket:   getEnvIntOrDefault("WORKER_MAX_PER_BUCKET", 30),
		WorkerScanTop:     getEnvIntOrDefault("WORKER_SCAN_TOP", 50),

		Debug:          os.Getenv("DEBUG") == "true",
		RequestTimeout: time.Duration(getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		RetryAttempts:  getEnvIntOrDefault("RETRY_ATTEMPTS", 3),
		RetryDelay:     time.Duration(getEnvIntOrDefault("RETRY_DELAY_SECONDS", 5)) * time.Second,

		MonitoringEnabled: os.Getenv("ENABLE_HTTP_MONITORING") == "true",
		MonitoringPort:    getEnvOrDefault("MONITORING_PORT", "8080"),
	}

	cfg.SetWorkerInterval(time.Duration(getEnvIntOrDefault("WORKER_INTERVAL_SECONDS", 180)) * time.Second)

	return cfg, cfg.Validate()
}

// WorkerInterval returns the current sleep between worker cycles.
func (c *Config) WorkerInterval() time.Duration {
	return time.Duration(c.workerInterval.Load())
}

// SetWorkerInterval retunes the worker sleep without a restart.
func (c *Config) SetWorkerInterval(d time.Duration) {
	if d < time.Second {
		d = time.Second
	}
	c.workerInterval.Store(int64(d))
}

func (c *Config) Validate() error {
	switch c.AIProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER=gemini")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("AI_PROVIDER must be 'gemini' or 'openai'")
	}
	if len(c.Countries) == 0 {
		return fmt.Errorf("COUNTRIES must list at least one country tag")
	}
	if c.WorkerBatchSize <= 0 {
		return fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
