package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dafitra/prompt-to-app/internal/api"
	"github.com/dafitra/prompt-to-app/internal/config"
	"github.com/dafitra/prompt-to-app/internal/domain"
	"github.com/dafitra/prompt-to-app/internal/llm"
	"github.com/dafitra/prompt-to-app/internal/llm/anthropic"
	"github.com/dafitra/prompt-to-app/internal/llm/fallback"
	"github.com/dafitra/prompt-to-app/internal/llm/gemini"
	"github.com/dafitra/prompt-to-app/internal/llm/groq"
	"github.com/dafitra/prompt-to-app/internal/llm/ollama"
	"github.com/dafitra/prompt-to-app/internal/llm/openai"
	"github.com/dafitra/prompt-to-app/internal/preview"
	"github.com/dafitra/prompt-to-app/internal/qr"
	"github.com/dafitra/prompt-to-app/internal/realtime"
	"github.com/dafitra/prompt-to-app/internal/repository/memory"
	redisrepo "github.com/dafitra/prompt-to-app/internal/repository/redis"
	"github.com/dafitra/prompt-to-app/internal/service"
	"github.com/dafitra/prompt-to-app/internal/snack"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if cfg.Logging.Format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Backend).
		Msg("Starting prompt-to-app server")

	// Initialize session store
	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session store")
	}
	defer store.Close()

	// Realtime hub and logging sink observe session updates
	hub := realtime.NewHub()
	store.Subscribe(hub)
	store.Subscribe(service.UpdateLog{})

	// Initialize LLM router with providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	llmRouter.RegisterProvider(fallback.NewProvider())

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.Groq.APIKey != "" {
		llmRouter.RegisterProvider(groq.NewProvider(cfg.LLM.Groq.APIKey, cfg.LLM.Groq.Model))
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Anthropic.APIKey != "" {
		llmRouter.RegisterProvider(anthropic.NewProvider(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	}
	if cfg.LLM.Ollama.Host != "" {
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}

	if providers := llmRouter.ListProviders(); len(providers) == 1 {
		log.Warn().Msg("No LLM provider configured; serving canned fallback completions")
	}

	// Initialize pipeline components
	writer := preview.NewWriter(cfg.Preview.Dir)
	qrPublisher := qr.NewPublisher(cfg.Preview.PublicBaseURL(), cfg.Preview.QRSize, cfg.Preview.URLMaxLen)
	snackPublisher := snack.NewPublisher(cfg.GitHub.Token, cfg.GitHub.Username)

	// Initialize services
	generateService := service.NewGenerateService(llmRouter, cfg.LLM.Temperature, cfg.LLM.MaxTokens)
	sessionService := service.NewSessionService(store, writer, qrPublisher, snackPublisher, hub, cfg.Storage.SessionTTL)

	// Initialize router
	router := api.NewRouter(cfg, llmRouter, generateService, sessionService, hub)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func newSessionStore(cfg *config.Config) (domain.SessionStore, error) {
	switch cfg.Storage.Backend {
	case "redis":
		client, err := redisrepo.NewClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redisrepo.NewSessionStore(client), nil
	case "", "memory":
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
