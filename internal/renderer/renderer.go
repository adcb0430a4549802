// Package renderer turns notes into note list items.
package renderer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/notelist/internal/datefmt"
	"github.com/starford/notelist/internal/excerpt"
	"github.com/starford/notelist/internal/fields"
	"github.com/starford/notelist/internal/i18n"
	"github.com/starford/notelist/internal/models"
	"github.com/starford/notelist/internal/settings"
	"github.com/starford/notelist/internal/thumbnail"
)

// SettingsSource supplies the settings snapshot in effect.
type SettingsSource interface {
	Current() *settings.RenderSettings
}

// Previewer resolves the thumbnail of a note.
type Previewer interface {
	Preview(ctx context.Context, req thumbnail.Request) string
}

// Notifier shows a message to the user.
type Notifier interface {
	Message(msg string)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock replaces the wall clock used for relative dates and due states.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// WithNotifier sets where template errors are reported.
func WithNotifier(n Notifier) Option {
	return func(r *Renderer) {
		r.notifier = n
	}
}

// WithThumbnailURL sets the URL prefix thumbnails are served under.
func WithThumbnailURL(prefix string) Option {
	return func(r *Renderer) {
		r.thumbURL = prefix
	}
}

// Renderer builds view models and HTML items for notes.
type Renderer struct {
	settings SettingsSource
	thumbs   Previewer
	catalog  *i18n.Catalog
	logger   *slog.Logger
	notifier Notifier
	now      func() time.Time
	thumbURL string
}

// New creates a Renderer. thumbs may be nil when thumbnails are not served.
func New(src SettingsSource, thumbs Previewer, catalog *i18n.Catalog, logger *slog.Logger, opts ...Option) *Renderer {
	r := &Renderer{
		settings: src,
		thumbs:   thumbs,
		catalog:  catalog,
		logger:   logger,
		now:      time.Now,
		thumbURL: "/api/thumbnails/",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Settings returns the snapshot in effect.
func (r *Renderer) Settings() *settings.RenderSettings {
	return r.settings.Current()
}

// IsConfidential reports whether note must be shown without tags, body
// and thumbnail: either the note is flagged or it carries a confidential tag.
func IsConfidential(note *models.Note, s *settings.RenderSettings) bool {
	if note.Confidential {
		return true
	}
	for _, t := range note.Tags {
		if s.IsConfidentialTag(t.Title) {
			return true
		}
	}
	return false
}

// Render builds the view model of note. A broken line template is logged,
// reported to the notifier and returned as an error.
func (r *Renderer) Render(ctx context.Context, note *models.Note) (*models.ViewModel, error) {
	s := r.settings.Current()
	now := r.now()
	confidential := IsConfidential(note, s)

	left, right, withText := strings.Cut(s.NoteLine, fields.NoteTextPlaceholder)

	sub := fields.New(s.FieldOptions(), func() time.Time { return now })
	lines := []string{left, right, s.FirstLine, s.LastLine}
	for i, tmpl := range lines {
		out, err := sub.Substitute(ctx, tmpl, note, confidential)
		if err != nil {
			return nil, r.templateError(s, note, err)
		}
		lines[i] = out
	}

	date, err := datefmt.Format(note.UpdatedTime, now, s.DateOptions())
	if err != nil {
		return nil, r.templateError(s, note, err)
	}

	vm := &models.ViewModel{
		NoteID:        note.ID,
		Title:         note.TitleHTML(),
		Date:          date,
		NoteLineLeft:  lines[0],
		NoteLineRight: lines[1],
		FirstLine:     lines[2],
		LastLine:      lines[3],
		IsTodo:        note.IsTodo,
		Completed:     note.Completed(),
		Confidential:  confidential,
	}

	switch {
	case !withText:
	case confidential:
		vm.Body = r.catalog.For(s.Locale).T(i18n.MsgContentHidden)
	default:
		vm.Body = excerpt.ExcerptWith(note.Body, s.BodyExcerpt, excerpt.Options{ImageAltText: s.ImageAltText})
	}

	if s.ThumbnailsEnabled() && !confidential && r.thumbs != nil {
		vm.Thumbnail = r.thumbs.Preview(ctx, thumbnail.Request{
			NoteID: note.ID,
			Body:   note.Body,
			Width:  s.ThumbnailWidth(),
			Square: s.ThumbnailSquare,
		})
	}

	return vm, nil
}

func (r *Renderer) templateError(s *settings.RenderSettings, note *models.Note, err error) error {
	r.logger.Error("renderer: field substitution failed",
		slog.String("note_id", note.ID), slog.String("error", err.Error()))
	if r.notifier != nil {
		r.notifier.Message(r.catalog.For(s.Locale).T(i18n.MsgTemplateError, err.Error()))
	}
	return fmt.Errorf("renderer: note %s: %w", note.ID, err)
}

// CSS returns the item stylesheet of the current settings.
func (r *Renderer) CSS() string {
	return r.settings.Current().CSS()
}
