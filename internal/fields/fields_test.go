package fields

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/starford/notelist/internal/apperr"
	"github.com/starford/notelist/internal/datefmt"
	"github.com/starford/notelist/internal/models"
)

var refNow = time.Date(2021, 6, 21, 15, 30, 45, 0, time.UTC)

func newSubstituter(datePattern, timePattern string, humanizeDays int) *Substituter {
	return New(Options{
		Date: datefmt.Options{
			DatePattern:  datePattern,
			TimePattern:  timePattern,
			HumanizeDays: humanizeDays,
			Location:     time.UTC,
		},
		TodoNearHours: 48,
	}, func() time.Time { return refNow })
}

func TestSubstitute(t *testing.T) {
	minus2 := refNow.AddDate(0, 0, -2)
	minus5 := refNow.AddDate(0, 0, -5)
	minus30 := refNow.AddDate(0, 0, -30)

	cases := []struct {
		name         string
		template     string
		note         models.Note
		datePattern  string
		timePattern  string
		humanizeDays int
		expect       string
	}{
		{
			name:         "date",
			template:     "Test {{date}} date",
			note:         models.Note{UpdatedTime: minus2, CreatedTime: minus5},
			datePattern:  "DD/MM/YYYY",
			timePattern:  "HH:mm",
			humanizeDays: 1,
			expect:       `Test <span class="date">19/06/2021 15:30</span> date`,
		},
		{
			name:         "date outside window",
			template:     "Test {{date}} date",
			note:         models.Note{UpdatedTime: minus30},
			datePattern:  "DD/MM/YYYY",
			timePattern:  "HH:mm",
			humanizeDays: 7,
			expect:       `Test <span class="date">22/05/2021 15:30</span> date`,
		},
		{
			name:         "date other pattern",
			template:     "Test {{date}} date",
			note:         models.Note{UpdatedTime: minus30},
			datePattern:  "YYYY-MM-DD",
			timePattern:  "HH-mm",
			humanizeDays: 7,
			expect:       `Test <span class="date">2021-05-22 15-30</span> date`,
		},
		{
			name:         "humanize",
			template:     "Test {{date}} date",
			note:         models.Note{UpdatedTime: minus2},
			datePattern:  "DD/MM/YYYY",
			timePattern:  "HH:mm",
			humanizeDays: 7,
			expect:       `Test <span class="date">2 days ago</span> date`,
		},
		{
			name:         "no tag",
			template:     "Test {{tags}} tags",
			note:         models.Note{UpdatedTime: minus2},
			humanizeDays: 7,
			expect:       "Test  tags",
		},
		{
			name:         "one tag",
			template:     "Test {{tags}} tags",
			note:         models.Note{Tags: []models.Tag{{Title: "first"}}},
			humanizeDays: 7,
			expect:       `Test <span class="tags"><span class="tag">first</span></span> tags`,
		},
		{
			name:     "more tags",
			template: "Test {{tags}} tags",
			note: models.Note{Tags: []models.Tag{
				{Title: "first"}, {Title: "second"}, {Title: "more"},
			}},
			humanizeDays: 7,
			expect:       `Test <span class="tags"><span class="tag">first</span> <span class="tag">more</span> <span class="tag">second</span></span> tags`,
		},
		{
			name:         "created time",
			template:     "Test {{createdTime}} date",
			note:         models.Note{UpdatedTime: minus2, CreatedTime: minus5},
			datePattern:  "DD/MM/YYYY",
			timePattern:  "HH:mm",
			humanizeDays: 1,
			expect:       `Test <span class="date">16/06/2021 15:30</span> date`,
		},
		{
			name:         "updated time",
			template:     "Test {{updatedTime}} date",
			note:         models.Note{UpdatedTime: minus2, CreatedTime: minus5},
			datePattern:  "DD/MM/YYYY",
			timePattern:  "HH:mm",
			humanizeDays: 1,
			expect:       `Test <span class="date">19/06/2021 15:30</span> date`,
		},
		{
			name:         "updated time lower",
			template:     "Test {{updatedtime}} date",
			note:         models.Note{UpdatedTime: minus2, CreatedTime: minus5},
			datePattern:  "DD/MM/YYYY",
			timePattern:  "HH:mm",
			humanizeDays: 1,
			expect:       `Test <span class="date">19/06/2021 15:30</span> date`,
		},
		{
			name:         "created time upper",
			template:     "Test {{CREATEDTIME}} date",
			note:         models.Note{UpdatedTime: minus2, CreatedTime: minus5},
			datePattern:  "DD/MM/YYYY",
			timePattern:  "HH:mm",
			humanizeDays: 1,
			expect:       `Test <span class="date">16/06/2021 15:30</span> date`,
		},
		{
			name:         "url",
			template:     "Test {{url}} url",
			note:         models.Note{SourceURL: "https://joplinapp.org/help/api/references/rest_api#properties"},
			humanizeDays: 1,
			expect:       `Test <span class="url">https://joplinapp.org/help/api/references/rest_api#properties</span> url`,
		},
		{
			name:         "note text stays",
			template:     "{{date}} {{noteText}}",
			note:         models.Note{UpdatedTime: minus2},
			humanizeDays: 7,
			expect:       `<span class="date">2 days ago</span> {{noteText}}`,
		},
		{
			name:     "pass-through property",
			template: "[{{title}}] [{{missing}}]",
			note:     models.Note{Title: "A & B"},
			expect:   "[A &amp; B] [ ]",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newSubstituter(tc.datePattern, tc.timePattern, tc.humanizeDays)
			got, err := s.Substitute(context.Background(), tc.template, &tc.note, false)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.expect {
				t.Errorf("Substitute =\n%q\nwant\n%q", got, tc.expect)
			}
		})
	}
}

func TestSubstitute_ConfidentialHidesTags(t *testing.T) {
	s := newSubstituter("DD/MM/YYYY", "HH:mm", 7)
	note := &models.Note{Tags: []models.Tag{{Title: "secret"}}}
	got, err := s.Substitute(context.Background(), "a {{tags}} b", note, true)
	if err != nil {
		t.Fatal(err)
	}
	if got != "a  b" {
		t.Errorf("Substitute = %q", got)
	}
}

func TestSubstitute_Todo(t *testing.T) {
	s := newSubstituter("DD/MM/YYYY", "HH:mm", datefmt.NeverHumanize)
	due := refNow.Add(10 * time.Hour)

	open := &models.Note{IsTodo: true, TodoDue: due}
	got, err := s.Substitute(context.Background(), "{{todoDate}}|{{todoDueDate}}|{{todoCompletedDate}}", open, false)
	if err != nil {
		t.Fatal(err)
	}
	want := `<span class="todo-date todo-near">22/06/2021 01:30</span>|<span class="todo-date todo-near">22/06/2021 01:30</span>|`
	if got != want {
		t.Errorf("open todo =\n%q\nwant\n%q", got, want)
	}

	completed := refNow.Add(-time.Hour)
	done := &models.Note{IsTodo: true, TodoDue: due, TodoCompleted: completed}
	got, err = s.Substitute(context.Background(), "{{todoDate}}", done, false)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<span class="todo-date todo-done">21/06/2021 14:30</span>`; got != want {
		t.Errorf("done todo = %q, want %q", got, want)
	}

	noDue := &models.Note{IsTodo: true}
	got, err = s.Substitute(context.Background(), "[{{todoDate}}]", noDue, false)
	if err != nil {
		t.Fatal(err)
	}
	if got != "[]" {
		t.Errorf("no due = %q", got)
	}
}

func TestSubstitute_InvalidPattern(t *testing.T) {
	s := newSubstituter("DD [MM", "HH:mm", datefmt.NeverHumanize)
	_, err := s.Substitute(context.Background(), "{{date}}", &models.Note{UpdatedTime: refNow}, false)
	if !errors.Is(err, apperr.ErrInvalidTemplate) {
		t.Fatalf("expected ErrInvalidTemplate, got %v", err)
	}
}

func TestParse(t *testing.T) {
	segs := Parse("a {{x}}{{y}} b")
	if len(segs) != 4 {
		t.Fatalf("got %d segments: %+v", len(segs), segs)
	}
	if segs[0].Text != "a " || !segs[1].IsVar || segs[1].Field != "x" || segs[2].Field != "y" || segs[3].Text != " b" {
		t.Errorf("unexpected segments: %+v", segs)
	}
}

func TestSubstitute_OrderUnderConcurrency(t *testing.T) {
	s := newSubstituter("DD/MM/YYYY", "HH:mm", datefmt.NeverHumanize)
	note := &models.Note{Title: "t", SourceURL: "u", UpdatedTime: refNow}
	tmpl := ""
	want := ""
	for i := 0; i < 50; i++ {
		tmpl += "{{title}}-{{url}};"
		want += `t-<span class="url">u</span>;`
	}
	got, err := s.Substitute(context.Background(), tmpl, note, false)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("order not preserved:\n%q", got)
	}
}
