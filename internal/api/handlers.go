package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notelist/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List rendered notes, most recently updated first
//	@Tags			notes
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	res, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, "list notes", "", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get the rendered item of a note
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	NoteItem
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	vm, err := h.svc.Render(r.Context(), id)
	if err != nil {
		writeError(w, "render note", id, err)
		return
	}
	writeJSON(w, http.StatusOK, vm)
}

// GetNoteHTML handles GET /api/notes/{id}/html.
//
//	@Summary		Get the list item HTML of a note
//	@Tags			notes
//	@Produce		html
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{string}	string
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/html [get]
func (h *Handler) GetNoteHTML(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	html, err := h.svc.RenderHTML(r.Context(), id)
	if err != nil {
		writeError(w, "render note html", id, err)
		return
	}
	writeText(w, "text/html", html)
}

// PostEvent handles POST /api/notes/{id}/events.
//
//	@Summary		Apply an item interaction (to-do checkbox, confidential toggle)
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Note id"
//	@Param			body	body		EventRequest	true	"Interaction"
//	@Success		200		{object}	NoteItem
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/events [post]
func (h *Handler) PostEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req EventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.ElementID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("elementId is required"))
		return
	}

	vm, err := h.svc.HandleEvent(r.Context(), id, req)
	if err != nil {
		writeError(w, "handle event", id, err)
		return
	}
	writeJSON(w, http.StatusOK, vm)
}

// Style handles GET /api/style.css.
//
//	@Summary		Get the item stylesheet for the current settings
//	@Tags			style
//	@Produce		css
//	@Success		200	{string}	string
//	@Security		BearerAuth
//	@Router			/style.css [get]
func (h *Handler) Style(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeText(w, "text/css", h.svc.CSS())
}
