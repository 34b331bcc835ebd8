package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/graphol/internal/ontoservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *ontoservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Diagram workspace.
	r.Get("/diagrams", h.ListDiagrams)
	r.Get("/diagrams/*", h.GetDiagram)
	r.Put("/diagrams/*", h.PutDiagram)
	r.Delete("/diagrams/*", h.DeleteDiagram)

	// Translation.
	r.Post("/translate", h.TranslateDocument)
	r.Post("/translate/*", h.TranslateDiagram)
	r.Get("/runs/*", h.Runs)
	r.Get("/ontology/*", h.Ontology)

	// Axioms.
	r.Get("/axioms", h.Axioms)
	r.Get("/axioms/*", h.Axioms)
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
