// Package noteservice renders notes from the data store for the host surfaces.
package noteservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/notelist/internal/events"
	"github.com/starford/notelist/internal/models"
	"github.com/starford/notelist/internal/renderer"
	"github.com/starford/notelist/internal/store"
)

// DefaultLimit caps list responses when the caller gives no limit.
const DefaultLimit = 50

// ListResult is one page of rendered items.
type ListResult struct {
	Items []models.ViewModel `json:"items"`
	Total int                `json:"total"`
}

// Service coordinates the data store, renderer and event handler.
type Service struct {
	store    store.NoteStore
	renderer *renderer.Renderer
	events   *events.Handler
	logger   *slog.Logger
}

// NewService creates a new note service.
func NewService(st store.NoteStore, r *renderer.Renderer, ev *events.Handler, logger *slog.Logger) *Service {
	return &Service{store: st, renderer: r, events: ev, logger: logger}
}

// List renders one page of notes, most recently updated first. A note that
// fails to render is logged and left out; the rest of the page still renders.
func (s *Service) List(ctx context.Context, limit, offset int) (*ListResult, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	notes, total, err := s.store.ListNotes(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("noteservice: list notes: %w", err)
	}

	items := make([]models.ViewModel, 0, len(notes))
	for i := range notes {
		vm, err := s.renderer.Render(ctx, &notes[i])
		if err != nil {
			s.logger.Error("noteservice: render failed",
				slog.String("note_id", notes[i].ID),
				slog.String("error", err.Error()))
			continue
		}
		items = append(items, *vm)
	}
	return &ListResult{Items: items, Total: total}, nil
}

// Render returns the view model of a single note.
func (s *Service) Render(ctx context.Context, id string) (*models.ViewModel, error) {
	note, err := s.store.GetNote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("noteservice: get note %s: %w", id, err)
	}
	return s.renderer.Render(ctx, note)
}

// RenderHTML returns the list item HTML of a single note.
func (s *Service) RenderHTML(ctx context.Context, id string) (string, error) {
	note, err := s.store.GetNote(ctx, id)
	if err != nil {
		return "", fmt.Errorf("noteservice: get note %s: %w", id, err)
	}
	return s.renderer.RenderHTML(ctx, note)
}

// HandleEvent applies an item interaction and returns the re-rendered item.
func (s *Service) HandleEvent(ctx context.Context, id string, ev events.Event) (*models.ViewModel, error) {
	note, err := s.events.Handle(ctx, id, ev)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(ctx, note)
}

// CSS returns the stylesheet for rendered items.
func (s *Service) CSS() string {
	return s.renderer.CSS()
}
