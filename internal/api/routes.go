package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/varsilias/ollama-chat-api/internal/middleware"
	"github.com/varsilias/ollama-chat-api/pkg/utils"
)

func RegisterRoutes(mux chi.Router, h *Handlers) {
	mux.Get("/", h.Welcome)
	mux.Post("/chat", h.Chat)
	mux.Post("/chat-completions", h.ChatCompletions)

	mux.Get("/healthz", h.Health)
	mux.Get("/version", h.Version)
	mux.Get("/api/models", h.ListModels)
	mux.Get("/assets/chroma.css", h.Stylesheet)
}

// NewRouter builds the full handler: middleware stack, CORS and routes.
func NewRouter(logger *slog.Logger, h *Handlers, allowedOrigins []string) http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID())
	mux.Use(middleware.AccessLog(logger))
	mux.Use(middleware.Recoverer(logger))
	mux.Use(middleware.VersionHeader())
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.Error(w, http.StatusNotFound, "not found")
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	RegisterRoutes(mux, h)
	return mux
}
