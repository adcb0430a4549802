package renderer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/starford/notelist/internal/models"
	"github.com/starford/notelist/internal/settings"
)

// CheckboxID identifies the to-do checkbox in interaction events.
const CheckboxID = "todo-checkbox"

// ConfidentialToggleID identifies the confidential switch in interaction events.
const ConfidentialToggleID = "confidential-toggle"

var itemTemplate = template.Must(template.New("item").Parse(`<div class="content -{{.Layout}}{{if .VM.Completed}} -completed{{end}}{{if .VM.Confidential}} -confidential{{end}}" data-note-id="{{.VM.NoteID}}">
{{- if and .ThumbnailURL (eq .ThumbnailPos "left")}}
<div class="thumbnail thumbnail-left"><img src="{{.ThumbnailURL}}" alt=""></div>
{{- end}}
<div class="text">
{{- if .FirstLine}}
<p class="firstLine">{{.FirstLine}}</p>
{{- end}}
<p class="title">
{{- if .VM.IsTodo}}<input type="checkbox" data-id="{{.CheckboxID}}"{{if .VM.Completed}} checked{{end}}> {{end -}}
{{.Title}}</p>
{{- if .ShowBody}}
<p class="body">{{.Left}}{{.VM.Body}}{{.Right}}</p>
{{- end}}
{{- if .LastLine}}
<p class="lastLine">{{.LastLine}}</p>
{{- end}}
</div>
{{- if and .ThumbnailURL (eq .ThumbnailPos "right")}}
<div class="thumbnail thumbnail-right"><img src="{{.ThumbnailURL}}" alt=""></div>
{{- end}}
</div>`))

type itemView struct {
	VM           *models.ViewModel
	Layout       string
	Title        template.HTML
	FirstLine    template.HTML
	LastLine     template.HTML
	Left         template.HTML
	Right        template.HTML
	ShowBody     bool
	ThumbnailURL string
	ThumbnailPos string
	CheckboxID   string
}

// RenderHTML renders note into its list item HTML.
func (r *Renderer) RenderHTML(ctx context.Context, note *models.Note) (string, error) {
	vm, err := r.Render(ctx, note)
	if err != nil {
		return "", err
	}
	return r.HTML(vm)
}

// HTML renders a view model with the current settings. Line fragments are
// trusted HTML produced by field substitution; the body excerpt is escaped.
func (r *Renderer) HTML(vm *models.ViewModel) (string, error) {
	s := r.settings.Current()
	view := itemView{
		VM:           vm,
		Layout:       s.Layout,
		Title:        template.HTML(vm.Title),
		FirstLine:    template.HTML(vm.FirstLine),
		LastLine:     template.HTML(vm.LastLine),
		Left:         template.HTML(vm.NoteLineLeft),
		Right:        template.HTML(vm.NoteLineRight),
		ShowBody:     vm.NoteLineLeft != "" || vm.Body != "" || vm.NoteLineRight != "",
		ThumbnailPos: s.Thumbnail,
		CheckboxID:   CheckboxID,
	}
	if vm.Thumbnail != "" && s.Thumbnail != settings.ThumbnailNo {
		view.ThumbnailURL = r.thumbURL + filepath.Base(vm.Thumbnail)
	}

	var buf bytes.Buffer
	if err := itemTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("renderer: execute item template: %w", err)
	}
	return buf.String(), nil
}
