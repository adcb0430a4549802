package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notelist/internal/noteservice"
	"github.com/starford/notelist/internal/storage"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// thumbs is the plugin data directory generated thumbnails are served from.
func NewRouter(svc *noteservice.Service, thumbs storage.Provider, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)
	th := NewThumbnailHandler(thumbs)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Rendered items.
	r.Get("/notes", h.ListNotes)
	r.Get("/notes/{id}", h.GetNote)
	r.Get("/notes/{id}/html", h.GetNoteHTML)
	r.Post("/notes/{id}/events", h.PostEvent)

	r.Get("/style.css", h.Style)
	r.Get("/thumbnails/{name}", th.ServeFile)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
