// Package http provides the HTTP surface of PolicyFinder: the HTML pages,
// their JSON equivalents under /api and the router that ties them together.
package http

import (
	"net/http"

	"github.com/atinyakov/PolicyFinder/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler serving the site and its API.
//
// Routes:
//
//	GET  /                    → pages.Index
//	GET  /policy/{id}         → pages.Detail
//	POST /favorites/{id}      → pages.ToggleFavorite
//	POST /feedback            → pages.SubmitFeedback
//	GET  /health              → pages.Health
//	GET  /api/policies        → api.ListPolicies
//	GET  /api/policies/{id}   → api.GetPolicy
//	GET  /api/favorites       → api.Favorites
//	DELETE /api/favorites     → api.ClearFavorites
//	POST /api/favorites/{id}  → api.ToggleFavorite
//	POST /api/feedback        → api.SubmitFeedback
//
// Every request is logged; the /api group only accepts JSON bodies.
func NewRouter(pages *PageHandler, api *APIHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/health", pages.Health)
	r.Get("/", pages.Index)
	r.Get("/policy/{id}", pages.Detail)
	r.Post("/favorites/{id}", pages.ToggleFavorite)
	r.Post("/feedback", pages.SubmitFeedback)

	r.Route("/api", func(r chi.Router) {
		// Only allow request bodies with Content-Type: application/json
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Get("/policies", api.ListPolicies)
		r.Get("/policies/{id}", api.GetPolicy)
		r.Get("/favorites", api.Favorites)
		r.Delete("/favorites", api.ClearFavorites)
		r.Post("/favorites/{id}", api.ToggleFavorite)
		r.Post("/feedback", api.SubmitFeedback)
	})

	r.NotFound(pages.NotFound)

	return r
}
