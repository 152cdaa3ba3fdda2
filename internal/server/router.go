package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidhubhq/aidhub/internal/api"
	"github.com/aidhubhq/aidhub/internal/api/handlers"
	"github.com/aidhubhq/aidhub/internal/api/middleware"
)

type RouterConfig struct {
	AuthValidator    middleware.AuthValidator
	TicketHandler    *handlers.TicketHandler
	StudentHandler   *handlers.StudentHandler
	KnowledgeHandler *handlers.KnowledgeHandler
	AIHandler        *handlers.AIHandler
	AuthHandler      *handlers.AuthHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.AuthValidator))

		r.Route("/tickets", func(r chi.Router) {
			r.Post("/", cfg.TicketHandler.Create)
			r.Get("/", cfg.TicketHandler.List)
			r.Get("/{id}", cfg.TicketHandler.Get)
			r.Patch("/{id}", cfg.TicketHandler.Update)
			r.Post("/{id}/messages", cfg.TicketHandler.AddMessage)
			r.Get("/{id}/messages", cfg.TicketHandler.ListMessages)
			r.Post("/{id}/draft", cfg.AIHandler.Draft)
			r.Get("/{id}/suggestions", cfg.AIHandler.ListSuggestions)
		})

		r.Route("/students", func(r chi.Router) {
			r.Post("/", cfg.StudentHandler.Create)
			r.Get("/", cfg.StudentHandler.List)
			r.Get("/{id}", cfg.StudentHandler.Get)
			r.Patch("/{id}", cfg.StudentHandler.Update)
			r.Post("/{id}/events", cfg.StudentHandler.RecordEvent)
			r.Get("/{id}/events", cfg.StudentHandler.ListEvents)
		})

		r.Route("/knowledge", func(r chi.Router) {
			r.Post("/", cfg.KnowledgeHandler.Create)
			r.Get("/", cfg.KnowledgeHandler.List)
			r.Get("/search", cfg.KnowledgeHandler.Search)
			r.Get("/{id}", cfg.KnowledgeHandler.Get)
			r.Put("/{id}", cfg.KnowledgeHandler.Update)
			r.Delete("/{id}", cfg.KnowledgeHandler.Delete)
		})

		r.Post("/triage", cfg.AIHandler.Triage)
		r.Post("/suggestions/{id}/accept", cfg.AIHandler.AcceptSuggestion)
	})

	r.Post("/tenants", cfg.AuthHandler.CreateTenant)
	r.Post("/apikeys", cfg.AuthHandler.CreateAPIKey)

	return r
}
