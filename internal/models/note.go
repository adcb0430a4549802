// Package models defines the domain types shared by the note list renderer.
package models

import (
	"html"
	"strconv"
	"time"
)

// Note is a note as delivered by the host data store. The renderer never
// mutates it; the only write path is a to-do or confidential patch issued
// through the store.
type Note struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Body          string            `json:"body"`
	CreatedTime   time.Time         `json:"created_time"`
	UpdatedTime   time.Time         `json:"updated_time"`
	Tags          []Tag             `json:"tags"`
	IsTodo        bool              `json:"is_todo"`
	TodoDue       time.Time         `json:"todo_due"`
	TodoCompleted time.Time         `json:"todo_completed"`
	Watched       bool              `json:"watched"`
	Confidential  bool              `json:"confidential"`
	SourceURL     string            `json:"source_url"`
	Properties    map[string]string `json:"properties,omitempty"`
}

// TitleHTML returns the escaped title, standing in for the host's pre-rendered title.
func (n *Note) TitleHTML() string {
	return html.EscapeString(n.Title)
}

// Completed reports whether the note is a to-do with a completion time.
func (n *Note) Completed() bool {
	return n.IsTodo && !n.TodoCompleted.IsZero()
}

// Property looks up a scalar note property by its host field name.
// Extra properties supplied by the host take part in the lookup last.
func (n *Note) Property(name string) (string, bool) {
	switch name {
	case "id":
		return n.ID, true
	case "title":
		return n.Title, true
	case "source_url":
		return n.SourceURL, true
	case "is_todo":
		return boolString(n.IsTodo), true
	case "todo_due":
		return millis(n.TodoDue), true
	case "todo_completed":
		return millis(n.TodoCompleted), true
	case "user_created_time", "created_time":
		return millis(n.CreatedTime), true
	case "user_updated_time", "updated_time":
		return millis(n.UpdatedTime), true
	}
	v, ok := n.Properties[name]
	return v, ok
}

// Tag is a note tag. Only the title takes part in rendering.
type Tag struct {
	Title string `json:"title"`
}

// Resource is an attachment referenced from a note body.
type Resource struct {
	ID            string    `json:"id"`
	Mime          string    `json:"mime"`
	FileExtension string    `json:"file_extension"`
	UpdatedTime   time.Time `json:"updated_time"`
}

// NotePatch carries the fields an interaction event may change.
// Nil fields are left untouched.
type NotePatch struct {
	TodoCompleted *time.Time
	Confidential  *bool
}

// ViewModel is the per-render output of the note renderer.
type ViewModel struct {
	NoteID        string `json:"note_id"`
	Title         string `json:"title"`
	Date          string `json:"date"`
	NoteLineLeft  string `json:"note_line_left"`
	Body          string `json:"body"`
	NoteLineRight string `json:"note_line_right"`
	FirstLine     string `json:"first_line"`
	LastLine      string `json:"last_line"`
	IsTodo        bool   `json:"is_todo"`
	Completed     bool   `json:"completed"`
	Confidential  bool   `json:"confidential"`
	Thumbnail     string `json:"thumbnail,omitempty"`
}

// Millis converts t to the host's millisecond timestamp; the zero time maps to 0.
func Millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromMillis is the inverse of Millis.
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func millis(t time.Time) string {
	return strconv.FormatInt(Millis(t), 10)
}

func boolString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
