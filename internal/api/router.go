package api

import (
	"net/http"

	"github.com/dafitra/prompt-to-app/internal/api/handler"
	customMiddleware "github.com/dafitra/prompt-to-app/internal/api/middleware"
	"github.com/dafitra/prompt-to-app/internal/config"
	"github.com/dafitra/prompt-to-app/internal/llm"
	"github.com/dafitra/prompt-to-app/internal/realtime"
	"github.com/dafitra/prompt-to-app/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	llmRouter *llm.Router,
	generateService *service.GenerateService,
	sessionService *service.SessionService,
	hub *realtime.Hub,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(cfg.Server.MaxBodyBytes))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Initialize handlers
	aiHandler := handler.NewAIHandler(generateService)
	sessionHandler := handler.NewSessionHandler(sessionService)

	r.Get("/health", handler.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/ai", func(r chi.Router) {
			r.Post("/generate-text", aiHandler.GenerateText)
			r.Get("/providers", handler.ListLLMProviders(llmRouter))
		})

		r.Route("/session", func(r chi.Router) {
			r.Post("/create-session", sessionHandler.Create)
			r.Get("/{id}", sessionHandler.Get)
			r.Patch("/{id}", sessionHandler.Update)
		})
	})

	// Realtime channel: clients join a session id, the hub pushes
	// session:update events.
	r.Get("/ws", hub.HandleWS)

	// Static preview documents
	r.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir(cfg.Preview.Dir))))

	return r
}
