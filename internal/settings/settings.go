// Package settings holds the render settings snapshot of the note list.
package settings

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/notelist/internal/datefmt"
	"github.com/starford/notelist/internal/fields"
	"github.com/starford/notelist/pkg/config"
)

// Layouts.
const (
	LayoutPreview = "preview"
	LayoutCompact = "compact"
)

// Thumbnail positions.
const (
	ThumbnailNo    = "no"
	ThumbnailLeft  = "left"
	ThumbnailRight = "right"
)

// RenderSettings is an immutable snapshot of the note list configuration.
// A reload builds a new value; nothing mutates a published snapshot.
type RenderSettings struct {
	Layout           string   `yaml:"layout"`
	ItemSizeHeight   int      `yaml:"item_size_height"`
	DaysHumanizeDate int      `yaml:"days_humanize_date"`
	BodyExcerpt      int      `yaml:"body_excerpt"`
	ImageAltText     bool     `yaml:"image_alt_text"`
	FirstLine        string   `yaml:"first_line"`
	NoteLine         string   `yaml:"note_line"`
	LastLine         string   `yaml:"last_line"`
	DateFormat       string   `yaml:"date_format"`
	TimeFormat       string   `yaml:"time_format"`
	TimeZone         string   `yaml:"time_zone"`
	Locale           string   `yaml:"locale"`
	Thumbnail        string   `yaml:"thumbnail"`
	ThumbnailSize    int      `yaml:"thumbnail_size"`
	ThumbnailSquare  bool     `yaml:"thumbnail_square"`
	Zoom             float64  `yaml:"zoom"`
	FileCacheDays    int      `yaml:"file_cache_days"`
	ConfidentialTags []string `yaml:"confidential_tags"`

	TodoDueNearHours    int    `yaml:"todo_due_near_hours"`
	TodoDueColorOpen    string `yaml:"todo_due_color_open"`
	TodoDueColorNear    string `yaml:"todo_due_color_near"`
	TodoDueColorOverdue string `yaml:"todo_due_color_overdue"`
	TodoDueColorDone    string `yaml:"todo_due_color_done"`

	CSSFirstLine string `yaml:"css_first_line"`
	CSSLastLine  string `yaml:"css_last_line"`
	CSSDate      string `yaml:"css_date"`
	CSSTags      string `yaml:"css_tags"`

	loc *time.Location
}

// Default returns the settings a fresh installation starts with.
func Default() *RenderSettings {
	return &RenderSettings{
		Layout:              LayoutPreview,
		ItemSizeHeight:      100,
		DaysHumanizeDate:    7,
		BodyExcerpt:         150,
		NoteLine:            "{{date}} " + fields.NoteTextPlaceholder,
		DateFormat:          "DD/MM/YYYY",
		TimeFormat:          "HH:mm",
		Locale:              "en",
		Thumbnail:           ThumbnailNo,
		ThumbnailSize:       75,
		Zoom:                1,
		FileCacheDays:       30,
		ConfidentialTags:    []string{"confidential"},
		TodoDueNearHours:    48,
		TodoDueColorNear:    "#ff8c00",
		TodoDueColorOverdue: "#e03030",
		TodoDueColorDone:    "#3c9a3c",
	}
}

// Load reads a settings file on top of the defaults.
func Load(path string) (*RenderSettings, error) {
	s := Default()
	if err := config.Load(path, s); err != nil {
		return nil, err
	}
	s.normalize()
	return s, nil
}

// Validate checks the setting bounds.
func (s *RenderSettings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Layout, validation.Required, validation.In(LayoutPreview, LayoutCompact)),
		validation.Field(&s.ItemSizeHeight, validation.Min(1), validation.Max(999)),
		validation.Field(&s.DaysHumanizeDate, validation.Min(-1), validation.Max(999)),
		validation.Field(&s.BodyExcerpt, validation.Min(1), validation.Max(9999)),
		validation.Field(&s.DateFormat, validation.Required),
		validation.Field(&s.TimeFormat, validation.Required),
		validation.Field(&s.TimeZone, validation.By(validTimeZone)),
		validation.Field(&s.Thumbnail, validation.Required, validation.In(ThumbnailNo, ThumbnailLeft, ThumbnailRight)),
		validation.Field(&s.ThumbnailSize, validation.Min(1), validation.Max(200)),
		validation.Field(&s.Zoom, validation.Min(0.1), validation.Max(10.0)),
		validation.Field(&s.FileCacheDays, validation.Min(0), validation.Max(3650)),
		validation.Field(&s.TodoDueNearHours, validation.Min(0), validation.Max(9999)),
	)
}

func validTimeZone(v any) error {
	name, _ := v.(string)
	if name == "" {
		return nil
	}
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("unknown time zone %q", name)
	}
	return nil
}

func (s *RenderSettings) normalize() {
	s.FirstLine = strings.TrimSpace(s.FirstLine)
	s.NoteLine = strings.TrimSpace(s.NoteLine)
	s.LastLine = strings.TrimSpace(s.LastLine)
	tags := make([]string, 0, len(s.ConfidentialTags))
	for _, t := range s.ConfidentialTags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	s.ConfidentialTags = tags
	if s.TimeZone != "" {
		s.loc, _ = time.LoadLocation(s.TimeZone)
	}
}

// Location returns the configured time zone, defaulting to local time.
func (s *RenderSettings) Location() *time.Location {
	if s.loc != nil {
		return s.loc
	}
	if s.TimeZone != "" {
		if loc, err := time.LoadLocation(s.TimeZone); err == nil {
			return loc
		}
	}
	return time.Local
}

// DateOptions returns the date formatting options of the snapshot.
func (s *RenderSettings) DateOptions() datefmt.Options {
	return datefmt.Options{
		DatePattern:  s.DateFormat,
		TimePattern:  s.TimeFormat,
		HumanizeDays: s.DaysHumanizeDate,
		Location:     s.Location(),
		Locale:       s.Locale,
	}
}

// FieldOptions returns the placeholder options of the snapshot.
func (s *RenderSettings) FieldOptions() fields.Options {
	return fields.Options{Date: s.DateOptions(), TodoNearHours: s.TodoDueNearHours}
}

// ThumbnailsEnabled reports whether previews should carry an image.
func (s *RenderSettings) ThumbnailsEnabled() bool {
	return s.Thumbnail == ThumbnailLeft || s.Thumbnail == ThumbnailRight
}

// ThumbnailWidth is the thumbnail size scaled by the display zoom.
func (s *RenderSettings) ThumbnailWidth() int {
	w := int(float64(s.ThumbnailSize) * s.Zoom)
	if w < 1 {
		return 1
	}
	return w
}

// FileCacheTTL is how long a generated thumbnail may stay cached. Zero
// disables expiry.
func (s *RenderSettings) FileCacheTTL() time.Duration {
	return time.Duration(s.FileCacheDays) * 24 * time.Hour
}

// IsConfidentialTag reports whether title names a confidential tag.
func (s *RenderSettings) IsConfidentialTag(title string) bool {
	title = strings.ToLower(title)
	for _, t := range s.ConfidentialTags {
		if t == title {
			return true
		}
	}
	return false
}

// Holder publishes the current snapshot to concurrent readers.
type Holder struct {
	cur atomic.Pointer[RenderSettings]
}

// NewHolder creates a Holder serving s.
func NewHolder(s *RenderSettings) *Holder {
	h := &Holder{}
	h.cur.Store(s)
	return h
}

// Current returns the snapshot in effect.
func (h *Holder) Current() *RenderSettings {
	return h.cur.Load()
}

// Replace swaps in s as a whole.
func (h *Holder) Replace(s *RenderSettings) {
	h.cur.Store(s)
}
