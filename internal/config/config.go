package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/docoutline/internal/classify"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Pathstore sink. Disabled when PathstoreURL is empty.
	PathstoreURL    string
	PathstoreAPIKey string

	// Auth
	OutlinerAPIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Classifier tuning
	FragmentWordCeiling   int
	ScoreThreshold        float64
	TitleMaxWords         int
	TitleLineGapThreshold float64
}

// LoadDotEnv loads variables from path into the process environment.
// A missing file is not an error; variables already set win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func Load() Config {
	defaults := classify.DefaultConfig()
	cfg := Config{
		Port: envOr("PORT", "8090"),

		PathstoreURL:    os.Getenv("PATHSTORE_URL"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),

		OutlinerAPIKey: os.Getenv("OUTLINER_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		FragmentWordCeiling:   envInt("FRAGMENT_WORD_CEILING", defaults.FragmentWordCeiling),
		ScoreThreshold:        envFloat("SCORE_THRESHOLD", defaults.ScoreThreshold),
		TitleMaxWords:         envInt("TITLE_MAX_WORDS", defaults.TitleMaxWords),
		TitleLineGapThreshold: envFloat("TITLE_LINE_GAP", defaults.TitleLineGapThreshold),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// ClassifyConfig returns the classifier tuning carried by c.
func (c Config) ClassifyConfig() classify.Config {
	return classify.Config{
		FragmentWordCeiling:   c.FragmentWordCeiling,
		ScoreThreshold:        c.ScoreThreshold,
		TitleMaxWords:         c.TitleMaxWords,
		TitleLineGapThreshold: c.TitleLineGapThreshold,
	}
}

// SinkEnabled reports whether outlines are persisted to pathstore.
func (c Config) SinkEnabled() bool {
	return c.PathstoreURL != ""
}

func (c Config) Validate() error {
	if c.OutlinerAPIKey == "" {
		return fmt.Errorf("OUTLINER_API_KEY is required")
	}
	if c.SinkEnabled() && c.PathstoreAPIKey == "" {
		return fmt.Errorf("PATHSTORE_API_KEY is required when PATHSTORE_URL is set")
	}
	if c.FragmentWordCeiling < 0 {
		return fmt.Errorf("FRAGMENT_WORD_CEILING must not be negative")
	}
	if !positiveFinite(c.ScoreThreshold) {
		return fmt.Errorf("SCORE_THRESHOLD must be a positive number, got %v", c.ScoreThreshold)
	}
	if c.TitleMaxWords < 0 {
		return fmt.Errorf("TITLE_MAX_WORDS must not be negative")
	}
	if !positiveFinite(c.TitleLineGapThreshold) {
		return fmt.Errorf("TITLE_LINE_GAP must be a positive number, got %v", c.TitleLineGapThreshold)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
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
