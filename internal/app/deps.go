package app

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"

	"newsroom/internal/agent"
	"newsroom/internal/config"
	"newsroom/internal/llm"
	"newsroom/internal/logger"
	"newsroom/internal/report"
	"newsroom/internal/session"
)

// Deps bundles common runtime dependencies for the service.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	LLM      llm.Client
	Sessions session.Store
	Reporter *agent.Reporter
	Saver    *report.Saver
}

// Build loads env, config, and shared components. The model client and agent
// are constructed exactly once here and handed to handlers; nothing is looked
// up through globals.
func Build() (Deps, error) {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	sessions, err := buildSessions(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize session store: %w", err)
	}
	return Deps{
		Config:   cfg,
		Log:      log,
		LLM:      llmClient,
		Sessions: sessions,
		Reporter: agent.New(log, llmClient),
		Saver:    report.NewSaver(cfg.ReportsDir),
	}, nil
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey, openai.ChatModel(cfg.LLMModel), openai.AudioModel(cfg.TranscribeModel), cfg.LLMMaxAttempts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI LLM client", "model", cfg.LLMModel, "transcribe_model", cfg.TranscribeModel)
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid option: openai)", cfg.LLMProvider)
	}
}

func buildSessions(cfg config.Config, log *slog.Logger) (session.Store, error) {
	switch cfg.SessionProvider {
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when SESSION_PROVIDER=redis")
		}
		st, err := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("using Redis session store", "addr", cfg.RedisAddr)
		return st, nil
	case "memory":
		log.Info("using in-memory session store", "ttl", cfg.SessionTTL)
		return session.NewMemoryStore(cfg.SessionTTL), nil
	default:
		return nil, fmt.Errorf("invalid SESSION_PROVIDER: %s (valid options: memory, redis)", cfg.SessionProvider)
	}
}
