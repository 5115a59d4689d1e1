package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/noteshot/internal/capture"
	"github.com/starford/noteshot/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// cap, if non-nil, enables the quick-capture endpoints.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, cap *capture.Coordinator, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, cap)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Patch("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)
	r.Get("/notes/{id}/related", h.RelatedNotes)

	// Tags.
	r.Get("/tags", h.ListTags)

	// Search.
	r.Get("/search", h.Search)
	r.Get("/search/semantic", h.SemanticSearch)

	// Graph.
	r.Get("/graph", h.Graph)

	// Quick capture.
	if cap != nil {
		r.Post("/capture", h.BeginCapture)
		r.Get("/capture", h.PendingCapture)
		r.Post("/capture/commit", h.CommitCapture)
		r.Post("/capture/discard", h.DiscardCapture)
	}

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
