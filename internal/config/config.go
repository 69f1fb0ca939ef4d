package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/outliner/internal/score"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Persistence
	DBPath string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Classifier tuning
	Cutoff         float64
	TitleCutoff    float64
	TitlePageLimit int
	ScriptMinShare float64

	// WeightsFile optionally points to a YAML file overriding the scoring
	// weights. Empty means built-in defaults.
	WeightsFile string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("OUTLINER_API_KEY"),

		DBPath: envOr("OUTLINER_DB_PATH", "outliner.db"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		Cutoff:         envFloat("HEADING_CUTOFF", 0.45),
		TitleCutoff:    envFloat("TITLE_CUTOFF", 0.6),
		TitlePageLimit: envInt("TITLE_PAGE_LIMIT", 2),
		ScriptMinShare: envFloat("SCRIPT_MIN_SHARE", 0.15),

		WeightsFile: os.Getenv("WEIGHTS_FILE"),
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

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OUTLINER_API_KEY is required")
	}
	if c.Cutoff <= 0 || c.Cutoff >= 1 {
		return fmt.Errorf("HEADING_CUTOFF must be in (0, 1), got %v", c.Cutoff)
	}
	if c.TitleCutoff <= 0 || c.TitleCutoff >= 1 {
		return fmt.Errorf("TITLE_CUTOFF must be in (0, 1), got %v", c.TitleCutoff)
	}
	return nil
}

// Weights returns the scoring weights, loading the YAML override file when
// one is configured.
func (c Config) Weights() (score.Weights, error) {
	if c.WeightsFile == "" {
		return score.DefaultWeights(), nil
	}
	data, err := os.ReadFile(c.WeightsFile)
	if err != nil {
		return score.Weights{}, fmt.Errorf("read weights file: %w", err)
	}
	w := score.DefaultWeights()
	if err := yaml.Unmarshal(data, &w); err != nil {
		return score.Weights{}, fmt.Errorf("parse weights file: %w", err)
	}
	if err := w.Validate(); err != nil {
		return score.Weights{}, fmt.Errorf("weights file %s: %w", c.WeightsFile, err)
	}
	return w, nil
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
