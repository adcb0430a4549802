// Package fields expands {{field}} placeholders in the configurable note list
// lines into HTML fragments.
package fields

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/notelist/internal/datefmt"
	"github.com/starford/notelist/internal/duedate"
	"github.com/starford/notelist/internal/models"
	"github.com/starford/notelist/internal/tags"
)

// NoteTextPlaceholder marks where the body excerpt goes. It is emitted
// unchanged and filled in by the renderer.
const NoteTextPlaceholder = "{{noteText}}"

// Recognized field names, compared case-insensitively.
const (
	FieldDate              = "date"
	FieldUpdatedTime       = "updatedtime"
	FieldCreatedTime       = "createdtime"
	FieldTodoDate          = "tododate"
	FieldTodoDueDate       = "tododuedate"
	FieldTodoCompletedDate = "todocompleteddate"
	FieldTags              = "tags"
	FieldURL               = "url"
	FieldNoteText          = "notetext"
)

var placeholderRe = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// Segment is either literal template text or a placeholder to resolve.
type Segment struct {
	Text  string
	Field string
	IsVar bool
}

// Parse splits template into literal and placeholder segments in order.
func Parse(template string) []Segment {
	var segs []Segment
	last := 0
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(template, -1) {
		if m[0] > last {
			segs = append(segs, Segment{Text: template[last:m[0]]})
		}
		segs = append(segs, Segment{Text: template[m[0]:m[1]], Field: template[m[2]:m[3]], IsVar: true})
		last = m[1]
	}
	if last < len(template) {
		segs = append(segs, Segment{Text: template[last:]})
	}
	return segs
}

// Options configure how dates and to-do states are rendered.
type Options struct {
	Date          datefmt.Options
	TodoNearHours int
}

// Substituter resolves placeholders for one settings snapshot.
type Substituter struct {
	opts Options
	now  func() time.Time
}

// New creates a Substituter. A nil now uses time.Now.
func New(opts Options, now func() time.Time) *Substituter {
	if now == nil {
		now = time.Now
	}
	return &Substituter{opts: opts, now: now}
}

// Substitute expands every placeholder in template for note. Placeholders are
// resolved concurrently; the output keeps the template order.
func (s *Substituter) Substitute(ctx context.Context, template string, note *models.Note, confidential bool) (string, error) {
	segs := Parse(template)
	out := make([]string, len(segs))
	now := s.now()

	g, _ := errgroup.WithContext(ctx)
	for i, seg := range segs {
		if !seg.IsVar {
			out[i] = seg.Text
			continue
		}
		g.Go(func() error {
			v, err := s.resolve(seg.Field, note, confidential, now)
			if err != nil {
				return fmt.Errorf("fields: %s: %w", seg.Text, err)
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return strings.Join(out, ""), nil
}

func (s *Substituter) resolve(field string, note *models.Note, confidential bool, now time.Time) (string, error) {
	switch strings.ToLower(field) {
	case FieldDate, FieldUpdatedTime:
		return s.dateSpan(note.UpdatedTime, now)
	case FieldCreatedTime:
		return s.dateSpan(note.CreatedTime, now)
	case FieldTodoDate:
		if note.TodoDue.IsZero() {
			return "", nil
		}
		ts := note.TodoDue
		if !note.TodoCompleted.IsZero() {
			ts = note.TodoCompleted
		}
		return s.todoSpan(ts, note, now)
	case FieldTodoDueDate:
		if note.TodoDue.IsZero() {
			return "", nil
		}
		return s.todoSpan(note.TodoDue, note, now)
	case FieldTodoCompletedDate:
		if note.TodoCompleted.IsZero() {
			return "", nil
		}
		return s.todoSpan(note.TodoCompleted, note, now)
	case FieldTags:
		if confidential || len(note.Tags) == 0 {
			return "", nil
		}
		return tagsSpan(tags.Sort(note.Tags)), nil
	case FieldURL:
		return `<span class="url">` + html.EscapeString(note.SourceURL) + `</span>`, nil
	case FieldNoteText:
		return NoteTextPlaceholder, nil
	}

	v, ok := note.Property(field)
	if !ok || v == "" {
		return " ", nil
	}
	return html.EscapeString(v), nil
}

func (s *Substituter) format(ts, now time.Time) (string, error) {
	v, err := datefmt.Format(ts, now, s.opts.Date)
	if err != nil {
		return "", err
	}
	return html.EscapeString(v), nil
}

func (s *Substituter) dateSpan(ts, now time.Time) (string, error) {
	v, err := s.format(ts, now)
	if err != nil {
		return "", err
	}
	return `<span class="date">` + v + `</span>`, nil
}

func (s *Substituter) todoSpan(ts time.Time, note *models.Note, now time.Time) (string, error) {
	v, err := s.format(ts, now)
	if err != nil {
		return "", err
	}
	class := strings.TrimSpace("todo-date " + duedate.Classify(note.TodoDue, note.TodoCompleted, s.opts.TodoNearHours, now).Class())
	return `<span class="` + class + `">` + v + `</span>`, nil
}

func tagsSpan(titles []string) string {
	var b strings.Builder
	b.WriteString(`<span class="tags">`)
	for i, t := range titles {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(`<span class="tag">`)
		b.WriteString(html.EscapeString(t))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</span>`)
	return b.String()
}
