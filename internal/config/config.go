package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/dgallion1/legalchunk/internal/footnote"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8090"`

	// Batch directories
	InputDir  string `env:"INPUT_DIR" envDefault:"./input"`
	OutputDir string `env:"OUTPUT_DIR" envDefault:"./output"`

	// Chunking
	MaxTokens      int    `env:"MAX_TOKENS" envDefault:"15000"`
	TokenEncoding  string `env:"TOKEN_ENCODING" envDefault:"cl100k_base"`
	FootnotePolicy string `env:"FOOTNOTE_POLICY" envDefault:"second-occurrence"`

	// Worker pool
	WorkerCount  int `env:"WORKER_COUNT" envDefault:"4"`
	MaxQueueSize int `env:"MAX_QUEUE_SIZE" envDefault:"100"`

	// Upload limits
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"` // 50MB

	// Job state
	JobTTL time.Duration `env:"JOB_TTL" envDefault:"1h"`

	// Run manifest; empty disables resume
	ManifestPath string `env:"MANIFEST_PATH" envDefault:"./output/manifest.db"`
	Force        bool   `env:"FORCE"`

	// Publishing to the document import API; empty URL disables it
	PublishURL     string  `env:"PUBLISH_URL"`
	PublishAPIKey  string  `env:"PUBLISH_API_KEY"`
	PublishRate    float64 `env:"PUBLISH_RATE" envDefault:"2"`
	PublishCatalog string  `env:"PUBLISH_CATALOG"`

	// Watch mode
	WatchDebounce time.Duration `env:"WATCH_DEBOUNCE" envDefault:"2s"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
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
	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = 2 * time.Second
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if _, err := footnote.ParsePolicy(c.FootnotePolicy); err != nil {
		return fmt.Errorf("FOOTNOTE_POLICY: %w", err)
	}
	if c.PublishURL != "" && c.PublishRate <= 0 {
		return fmt.Errorf("PUBLISH_RATE must be positive when PUBLISH_URL is set")
	}
	return nil
}

// Footnotes returns the parsed footnote policy. Call Validate first.
func (c Config) Footnotes() footnote.Policy {
	p, _ := footnote.ParsePolicy(c.FootnotePolicy)
	return p
}
