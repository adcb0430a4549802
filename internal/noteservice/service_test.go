package noteservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/starford/notelist/internal/apperr"
	"github.com/starford/notelist/internal/datefmt"
	"github.com/starford/notelist/internal/events"
	"github.com/starford/notelist/internal/i18n"
	"github.com/starford/notelist/internal/models"
	"github.com/starford/notelist/internal/renderer"
	"github.com/starford/notelist/internal/settings"
	"github.com/starford/notelist/internal/store"
	"github.com/starford/notelist/internal/testutil"
)

var refNow = time.Date(2021, 6, 21, 15, 30, 45, 0, time.UTC)

func testService(t *testing.T, s *settings.RenderSettings) (*Service, *store.DB, *settings.Holder) {
	t.Helper()
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	holder := settings.NewHolder(s)
	r := renderer.New(holder, nil, i18n.NewCatalog(), logger,
		renderer.WithClock(func() time.Time { return refNow }))
	ev := events.NewHandler(db, logger, nil)
	return NewService(db, r, ev, logger), db, holder
}

func baseSettings() *settings.RenderSettings {
	s := settings.Default()
	s.TimeZone = "UTC"
	s.DaysHumanizeDate = datefmt.NeverHumanize
	return s
}

func seed(t *testing.T, db *store.DB) {
	t.Helper()
	testutil.SeedNote(t, db, &models.Note{ID: "older", Title: "Older", Body: "first body", UpdatedTime: refNow.Add(-2 * time.Hour)})
	testutil.SeedNote(t, db, &models.Note{ID: "newer", Title: "Newer", Body: "second body", UpdatedTime: refNow.Add(-time.Hour)})
	testutil.SeedNote(t, db, &models.Note{
		ID: "todo", Title: "Todo", Body: "do it", IsTodo: true,
		TodoDue: refNow.Add(time.Hour), UpdatedTime: refNow.Add(-3 * time.Hour),
	})
}

func TestList(t *testing.T) {
	svc, db, _ := testService(t, baseSettings())
	seed(t, db)

	res, err := svc.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 3 || len(res.Items) != 3 {
		t.Fatalf("total = %d, items = %d", res.Total, len(res.Items))
	}
	if res.Items[0].NoteID != "newer" || res.Items[2].NoteID != "todo" {
		t.Errorf("order = %s, %s, %s", res.Items[0].NoteID, res.Items[1].NoteID, res.Items[2].NoteID)
	}
	if res.Items[0].Body != "second body" {
		t.Errorf("body = %q", res.Items[0].Body)
	}
	if res.Items[0].NoteLineLeft != "<span class=\"date\">21/06/2021 14:30</span> " {
		t.Errorf("left = %q", res.Items[0].NoteLineLeft)
	}
}

func TestList_Paging(t *testing.T) {
	svc, db, _ := testService(t, baseSettings())
	seed(t, db)

	res, err := svc.List(context.Background(), 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 3 || len(res.Items) != 1 || res.Items[0].NoteID != "older" {
		t.Errorf("page = %+v", res)
	}
}

func TestList_ContainsFailingNote(t *testing.T) {
	s := baseSettings()
	s.DateFormat = "DD [MM"
	svc, db, _ := testService(t, s)
	seed(t, db)

	// The date of every note fails to format, so the whole page is skipped
	// note by note rather than failing the request.
	res, err := svc.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 3 || len(res.Items) != 0 {
		t.Errorf("total = %d, items = %d", res.Total, len(res.Items))
	}
}

func TestRender_NotFound(t *testing.T) {
	svc, _, _ := testService(t, baseSettings())
	_, err := svc.Render(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	_, err = svc.RenderHTML(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from RenderHTML, got %v", err)
	}
}

func TestRenderHTML(t *testing.T) {
	svc, db, _ := testService(t, baseSettings())
	seed(t, db)

	html, err := svc.RenderHTML(context.Background(), "todo")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, `data-id="todo-checkbox"`) || !strings.Contains(html, `data-note-id="todo"`) {
		t.Errorf("missing checkbox in %s", html)
	}
}

func TestHandleEvent(t *testing.T) {
	svc, db, _ := testService(t, baseSettings())
	seed(t, db)

	vm, err := svc.HandleEvent(context.Background(), "todo", events.Event{ElementID: renderer.CheckboxID, Value: true})
	if err != nil {
		t.Fatal(err)
	}
	if !vm.Completed {
		t.Error("expected completed item")
	}

	vm, err = svc.HandleEvent(context.Background(), "todo", events.Event{ElementID: renderer.ConfidentialToggleID, Value: true})
	if err != nil {
		t.Fatal(err)
	}
	if !vm.Confidential || vm.Body != "Content hidden" {
		t.Errorf("vm = %+v", vm)
	}

	_, err = svc.HandleEvent(context.Background(), "todo", events.Event{ElementID: "nope"})
	if !errors.Is(err, apperr.ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestCSS_FollowsSettings(t *testing.T) {
	svc, _, holder := testService(t, baseSettings())
	next := baseSettings()
	next.CSSDate = "color: red;"
	holder.Replace(next)
	if !strings.Contains(svc.CSS(), "color: red;") {
		t.Error("CSS did not pick up replaced settings")
	}
}
