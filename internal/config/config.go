package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rgardner/docchunk/internal/chunker"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Directories
	TaxonomyDir string
	OutputDir   string

	// Chunking defaults
	TokenizerModel string
	ServerCtxSize  int
	ChunkWordCount int

	// Worker pool
	WorkerCount     int
	MaxQueueSize    int
	LeafParallelism int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("DOCCHUNK_API_KEY"),

		TaxonomyDir: envOr("TAXONOMY_DIR", "taxonomy"),
		OutputDir:   envOr("OUTPUT_DIR", "output"),

		TokenizerModel: envOr("TOKENIZER_MODEL", "cl100k_base"),
		ServerCtxSize:  envInt("SERVER_CTX_SIZE", 4096),
		ChunkWordCount: envInt("CHUNK_WORD_COUNT", 1024),

		WorkerCount:     envInt("WORKER_COUNT", 4),
		MaxQueueSize:    envInt("MAX_QUEUE_SIZE", 100),
		LeafParallelism: envInt("LEAF_PARALLELISM", 4),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.ServerCtxSize <= 0 {
		cfg.ServerCtxSize = 4096
	}
	if cfg.ChunkWordCount <= 0 {
		cfg.ChunkWordCount = 1024
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.LeafParallelism <= 0 {
		cfg.LeafParallelism = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCCHUNK_API_KEY is required")
	}
	if err := chunker.ValidateBudget(c.ServerCtxSize, c.ChunkWordCount); err != nil {
		return fmt.Errorf("chunking defaults: %w", err)
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
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
