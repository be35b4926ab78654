package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds minimal runtime configuration. Extend as needed.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upload limits
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"26214400"` // 25MB in bytes
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"uploads"`

	// Sessions
	SessionProvider string        `env:"SESSION_PROVIDER" envDefault:"memory"` // "memory" (single process) or "redis"
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	// LLM
	LLMProvider     string `env:"LLM_PROVIDER" envDefault:"openai"` // "openai" (uses OpenAI API)
	OpenAIKey       string `env:"OPENAI_API_KEY"`
	LLMModel        string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	TranscribeModel string `env:"TRANSCRIBE_MODEL" envDefault:"whisper-1"`
	LLMMaxAttempts  int    `env:"LLM_MAX_ATTEMPTS" envDefault:"1"` // 1 = fail fast, no retry

	// Saved reports
	ReportsDir string `env:"REPORTS_DIR" envDefault:"saved_reports"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
