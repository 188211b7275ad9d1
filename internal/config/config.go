package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Remote design-file API.
	FigmaBaseURL string

	// Optional service API key. When set, API requests must carry it as
	// a bearer token. The design-file token is always per request.
	APIKey string

	// Job workers.
	WorkerCount  int
	MaxQueueSize int

	// Classification worker pool.
	PoolSize      int
	ChunkTarget   int
	WorkerTimeout time.Duration

	// Font resolution.
	FontLookupLimit int

	// Download discipline.
	ArchiveBatchSize int
	SaveBatchSize    int
	BatchDelay       time.Duration
	RetryAttempts    int
	RetryDelay       time.Duration

	// Job state.
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		FigmaBaseURL: envOr("FIGMA_BASE_URL", "https://api.figma.com"),
		APIKey:       os.Getenv("WFI_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		PoolSize:      envInt("POOL_SIZE", 10),
		ChunkTarget:   envInt("CHUNK_TARGET", 10),
		WorkerTimeout: envDuration("WORKER_TIMEOUT", 30*time.Second),

		FontLookupLimit: envInt("FONT_LOOKUP_LIMIT", 10),

		ArchiveBatchSize: envInt("ARCHIVE_BATCH_SIZE", 10),
		SaveBatchSize:    envInt("SAVE_BATCH_SIZE", 3),
		BatchDelay:       envDuration("BATCH_DELAY", 100*time.Millisecond),
		RetryAttempts:    envInt("RETRY_ATTEMPTS", 3),
		RetryDelay:       envDuration("RETRY_DELAY", 500*time.Millisecond),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 10
	}
	if cfg.ChunkTarget <= 0 {
		cfg.ChunkTarget = 10
	}
	if cfg.FontLookupLimit <= 0 {
		cfg.FontLookupLimit = 10
	}
	if cfg.ArchiveBatchSize <= 0 {
		cfg.ArchiveBatchSize = 10
	}
	if cfg.SaveBatchSize <= 0 {
		cfg.SaveBatchSize = 3
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if _, err := url.Parse(c.FigmaBaseURL); err != nil {
		return fmt.Errorf("FIGMA_BASE_URL is not a valid URL: %w", err)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
