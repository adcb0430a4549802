// Package events applies list item interactions to notes.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/notelist/internal/apperr"
	"github.com/starford/notelist/internal/models"
	"github.com/starford/notelist/internal/renderer"
)

// Event is an interaction with an element of a rendered item.
type Event struct {
	ElementID string `json:"elementId"`
	Value     bool   `json:"value"`
}

// Updater writes note changes back to the data store.
type Updater interface {
	UpdateNote(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error)
}

// Listener is told about notes changed by an event.
type Listener func(note *models.Note)

// Handler translates events into note updates. It does not render.
type Handler struct {
	store    Updater
	logger   *slog.Logger
	now      func() time.Time
	listener Listener
}

// NewHandler creates a Handler. listener may be nil.
func NewHandler(store Updater, logger *slog.Logger, listener Listener) *Handler {
	return &Handler{store: store, logger: logger, now: time.Now, listener: listener}
}

// Handle applies ev to the note noteID and returns the updated note.
func (h *Handler) Handle(ctx context.Context, noteID string, ev Event) (*models.Note, error) {
	var patch models.NotePatch
	switch ev.ElementID {
	case renderer.CheckboxID:
		var completed time.Time
		if ev.Value {
			completed = h.now()
		}
		patch.TodoCompleted = &completed
	case renderer.ConfidentialToggleID:
		confidential := ev.Value
		patch.Confidential = &confidential
	default:
		return nil, fmt.Errorf("events: %q: %w", ev.ElementID, apperr.ErrUnknownEvent)
	}

	note, err := h.store.UpdateNote(ctx, noteID, patch)
	if err != nil {
		return nil, fmt.Errorf("events: update note %s: %w", noteID, err)
	}
	h.logger.Debug("events: note updated",
		slog.String("note_id", noteID),
		slog.String("element_id", ev.ElementID),
		slog.Bool("value", ev.Value))

	if h.listener != nil {
		h.listener(note)
	}
	return note, nil
}
