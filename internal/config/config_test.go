package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Save original env and restore after test
	originalEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range originalEnv {
			// Parse and restore each env var
			for i, c := range env {
				if c == '=' {
					os.Setenv(env[:i], env[i+1:])
					break
				}
			}
		}
	}()

	// Clear env to test defaults
	os.Clearenv()

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LLMProvider", cfg.LLMProvider, "openai"},
		{"SessionProvider", cfg.SessionProvider, "memory"},
		{"LLMModel", cfg.LLMModel, "gpt-4o-mini"},
		{"TranscribeModel", cfg.TranscribeModel, "whisper-1"},
		{"LLMMaxAttempts", cfg.LLMMaxAttempts, 1},
		{"SessionTTL", cfg.SessionTTL, 30 * time.Minute},
		{"ReportsDir", cfg.ReportsDir, "saved_reports"},
		{"UploadDir", cfg.UploadDir, "uploads"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	// Save and restore env
	originalPort := os.Getenv("PORT")
	originalTTL := os.Getenv("SESSION_TTL")
	defer func() {
		os.Setenv("PORT", originalPort)
		os.Setenv("SESSION_TTL", originalTTL)
	}()

	os.Setenv("PORT", "9090")
	os.Setenv("SESSION_TTL", "5m")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected Port=9090, got %d", cfg.Port)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("expected SessionTTL=5m, got %v", cfg.SessionTTL)
	}
}
