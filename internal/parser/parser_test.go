package parser

import (
	"testing"
	"time"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello\ntags:\n  - go\n  - notes\n---\n# Hello\nBody text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "Hello" {
		t.Errorf("title = %q, want %q", r.Title, "Hello")
	}
	if len(r.Tags) < 2 || r.Tags[0] != "go" || r.Tags[1] != "notes" {
		t.Errorf("tags = %v, want [go notes]", r.Tags)
	}
	if r.Body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter, got %v", r.Frontmatter)
	}
	if r.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", r.Title, "Just a heading")
	}
}

func TestParse_InvalidYAMLFallback(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Invalid YAML falls back to treating everything as body.
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
}

func TestExtractResourceRefs(t *testing.T) {
	body := "![a](:/f16103b064d9410384732ec27cd06efb) [pdf](:/a7f9ed618c6d427395d1ef1db2ee2000)\n" +
		"![again](:/f16103b064d9410384732ec27cd06efb) :/tooshort"
	ids := extractResourceRefs(body)
	if len(ids) != 2 {
		t.Fatalf("len(ids) = %d, want 2: %v", len(ids), ids)
	}
	if ids[0] != "f16103b064d9410384732ec27cd06efb" || ids[1] != "a7f9ed618c6d427395d1ef1db2ee2000" {
		t.Errorf("ids = %v", ids)
	}
}

func TestExtractTags_InlineAndFrontmatter(t *testing.T) {
	fm := map[string]any{
		"tags": []any{"alpha"},
	}
	body := "Some text #beta and #alpha again."
	tags := extractTags(body, fm)
	// alpha from FM, beta from body; alpha not duplicated.
	if len(tags) != 2 || tags[0] != "alpha" || tags[1] != "beta" {
		t.Errorf("tags = %v, want [alpha beta]", tags)
	}
}

func TestExtractTags_CommaString(t *testing.T) {
	tags := extractTags("", map[string]any{"tags": "one, two ,"})
	if len(tags) != 2 || tags[0] != "one" || tags[1] != "two" {
		t.Errorf("tags = %v", tags)
	}
}

func TestDeriveTitle_FrontmatterOverH1(t *testing.T) {
	fm := map[string]any{"title": "FM Title"}
	body := "# H1 Title\ntext"
	title := deriveTitle(fm, body)
	if title != "FM Title" {
		t.Errorf("title = %q, want %q", title, "FM Title")
	}
}

func TestDeriveTitle_H1Fallback(t *testing.T) {
	title := deriveTitle(nil, "some text\n# My Heading\nmore")
	if title != "My Heading" {
		t.Errorf("title = %q, want %q", title, "My Heading")
	}
}

func TestResult_TypedAccessors(t *testing.T) {
	input := []byte("---\n" +
		"todo: true\n" +
		"confidential: \"yes\"\n" +
		"todo_due: 2024-03-10T12:00:00Z\n" +
		"todo_completed: 1710072000000\n" +
		"created: \"2024-03-01 08:30\"\n" +
		"priority: 3\n" +
		"tags: [a]\n" +
		"---\nbody\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Bool("todo") || !r.Bool("confidential") || r.Bool("missing") {
		t.Errorf("Bool: todo=%v confidential=%v", r.Bool("todo"), r.Bool("confidential"))
	}
	want := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	if got := r.Time("todo_due"); !got.Equal(want) {
		t.Errorf("todo_due = %v, want %v", got, want)
	}
	if got := r.Time("todo_completed"); !got.Equal(want) {
		t.Errorf("todo_completed = %v, want %v", got, want)
	}
	created := time.Date(2024, 3, 1, 8, 30, 0, 0, time.Local)
	if got := r.Time("created"); !got.Equal(created) {
		t.Errorf("created = %v, want %v", got, created)
	}
	if !r.Time("missing").IsZero() {
		t.Error("missing time should be zero")
	}

	scalars := r.Scalars("todo", "confidential", "todo_due", "todo_completed", "created")
	if len(scalars) != 1 || scalars["priority"] != "3" {
		t.Errorf("Scalars = %v", scalars)
	}
}
