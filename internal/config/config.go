package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Job worker pool
	WorkerCount  int
	MaxQueueSize int

	// Per-collection map stage
	DocumentWorkers int
	DocumentTimeout time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Ranking limits
	MaxRankedSections     int
	SubsectionSections    int
	SubsectionsPerSection int
	MinSubsectionScore    float64

	// Optional role lexicon override; empty uses the embedded lexicon.
	LexiconPath string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCINTEL_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		DocumentWorkers: envInt("DOCUMENT_WORKERS", 4),
		DocumentTimeout: envDuration("DOCUMENT_TIMEOUT", 60*time.Second),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 104857600), // 100MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		MaxRankedSections:     envInt("MAX_RANKED_SECTIONS", 20),
		SubsectionSections:    envInt("SUBSECTION_SECTIONS", 5),
		SubsectionsPerSection: envInt("SUBSECTIONS_PER_SECTION", 3),
		MinSubsectionScore:    envFloat("MIN_SUBSECTION_SCORE", 0.1),

		LexiconPath: os.Getenv("LEXICON_PATH"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.DocumentWorkers <= 0 {
		cfg.DocumentWorkers = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 104857600
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks value ranges shared by the CLI and the server.
func (c Config) Validate() error {
	if c.DocumentTimeout < 0 {
		return fmt.Errorf("DOCUMENT_TIMEOUT must not be negative")
	}
	if c.MaxRankedSections < 1 {
		return fmt.Errorf("MAX_RANKED_SECTIONS must be at least 1")
	}
	if c.SubsectionSections < 0 || c.SubsectionsPerSection < 0 {
		return fmt.Errorf("SUBSECTION_SECTIONS and SUBSECTIONS_PER_SECTION must not be negative")
	}
	if c.MinSubsectionScore < 0 || c.MinSubsectionScore > 1 {
		return fmt.Errorf("MIN_SUBSECTION_SCORE must be within [0, 1]")
	}
	return nil
}

// ValidateServer additionally checks what the HTTP service needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("DOCINTEL_API_KEY is required")
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

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
