package settings

import (
	"fmt"
	"strings"

	"github.com/starford/notelist/internal/duedate"
)

const baseCSS = `> .content {
	width: 100%;
	box-sizing: border-box;
	padding: 5px 10px;
	overflow: hidden;
	color: var(--joplin-color);
}

> .content p {
	margin-bottom: 5px;
}

> .content .title {
	font-weight: bold;
	font-family: var(--joplin-font-family);
	font-size: var(--joplin-font-size);
	white-space: nowrap;
}

> .content .body,
> .content .firstLine,
> .content .lastLine {
	opacity: 0.7;
}

> .content .date {
	color: var(--joplin-color4);
}

> .content .tags .tag {
	border-radius: 3px;
	padding: 0 3px;
	background-color: var(--joplin-background-color3);
}

> .content .thumbnail img {
	object-fit: cover;
}

> .content.-completed .title {
	text-decoration: line-through;
	opacity: 0.6;
}

> .content.-selected {
	background-color: var(--joplin-selected-color);
}
`

// CSS returns the item stylesheet for the snapshot: the base rules, the
// due-date colors and the user overrides.
func (s *RenderSettings) CSS() string {
	var b strings.Builder
	b.WriteString(baseCSS)

	if s.ThumbnailsEnabled() {
		fmt.Fprintf(&b, "\n> .content .thumbnail {\n\tfloat: %s;\n\twidth: %dpx;\n}\n", s.Thumbnail, s.ThumbnailWidth())
		fmt.Fprintf(&b, "\n> .content .thumbnail img {\n\twidth: %dpx;\n\tmax-height: %dpx;\n}\n", s.ThumbnailWidth(), s.ItemSizeHeight)
	}

	colors := []struct{ class, color string }{
		{duedate.ClassOpen, s.TodoDueColorOpen},
		{duedate.ClassNear, s.TodoDueColorNear},
		{duedate.ClassOverdue, s.TodoDueColorOverdue},
		{duedate.ClassDone, s.TodoDueColorDone},
	}
	for _, c := range colors {
		if c.color == "" {
			continue
		}
		fmt.Fprintf(&b, "\n> .content .%s {\n\tcolor: %s;\n}\n", c.class, c.color)
	}

	overrides := []struct{ selector, css string }{
		{".firstLine", s.CSSFirstLine},
		{".lastLine", s.CSSLastLine},
		{".date", s.CSSDate},
		{".tags", s.CSSTags},
	}
	for _, o := range overrides {
		if strings.TrimSpace(o.css) == "" {
			continue
		}
		fmt.Fprintf(&b, "\n> .content %s {\n\t%s\n}\n", o.selector, strings.TrimSpace(o.css))
	}
	return b.String()
}
