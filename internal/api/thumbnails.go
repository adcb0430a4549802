package api

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notelist/internal/storage"
	"github.com/starford/notelist/internal/thumbnail"
)

// ThumbnailHandler serves generated thumbnails from the plugin data directory.
type ThumbnailHandler struct {
	files storage.Provider
}

// NewThumbnailHandler creates a handler over files.
func NewThumbnailHandler(files storage.Provider) *ThumbnailHandler {
	return &ThumbnailHandler{files: files}
}

// validName reports whether name is a plain thumbnail file name.
func validName(name string) bool {
	if name == "" || name != path.Base(name) {
		return false
	}
	ok, err := path.Match(thumbnail.FilePattern, name)
	return err == nil && ok
}

// ServeFile handles GET /api/thumbnails/{name}.
//
//	@Summary		Get a generated thumbnail
//	@Tags			thumbnails
//	@Produce		jpeg
//	@Param			name	path	string	true	"Thumbnail file name (thumb_<resource id>.jpg)"
//	@Success		200
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/thumbnails/{name} [get]
func (h *ThumbnailHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !validName(name) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid thumbnail name"))
		return
	}
	abs, err := h.files.Path(name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid thumbnail name"))
		return
	}
	if _, err := os.Stat(abs); errors.Is(err, fs.ErrNotExist) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, abs)
}
