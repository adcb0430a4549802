// Package excerpt turns a Markdown note body into a short plain-text preview.
package excerpt

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Ellipsis is appended to truncated excerpts.
const Ellipsis = "..."

var (
	strikeRe    = regexp.MustCompile(`(\s\\?~~|~~\s)`)
	highlightRe = regexp.MustCompile(`(\s\\?==|==\s)`)
	insertRe    = regexp.MustCompile(`(\s\\?\+\+|\+\+\s)`)
	spaceRe     = regexp.MustCompile(`\s+`)

	md = goldmark.New()
)

// Options controls how Markdown is stripped.
type Options struct {
	// ImageAltText keeps the alt text of images instead of dropping them.
	ImageAltText bool
}

// Excerpt strips body and cuts it at a word boundary so that the kept words
// fit into maxChars bytes. Each kept word is followed by a single space; when
// words were dropped the result ends with " ...".
func Excerpt(body string, maxChars int) string {
	return ExcerptWith(body, maxChars, Options{})
}

// ExcerptWith is Excerpt with explicit stripping options.
func ExcerptWith(body string, maxChars int, opts Options) string {
	full := Normalize(Strip(body, opts))
	if full == "" {
		return ""
	}

	var b strings.Builder
	for _, word := range strings.Split(full, " ") {
		if b.Len()+len(word) > maxChars {
			break
		}
		b.WriteString(word)
		b.WriteByte(' ')
	}

	kept := b.String()
	if len(strings.TrimRight(kept, " ")) < len(full) {
		return kept + Ellipsis
	}
	return full
}

// Strip removes Markdown syntax from body and returns the remaining text.
// Block boundaries become newlines.
func Strip(body string, opts Options) string {
	src := []byte(body)
	doc := md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Image:
			if opts.ImageAltText {
				writeChildText(&buf, node, src)
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			buf.Write(node.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			buf.Write(util.UnescapePunctuations(node.Segment.Value(src)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(node.Value)
		}
		return ast.WalkContinue, nil
	})

	out := buf.String()
	out = strikeRe.ReplaceAllString(out, " ")
	out = highlightRe.ReplaceAllString(out, " ")
	out = insertRe.ReplaceAllString(out, " ")
	return out
}

// Normalize collapses line breaks and whitespace runs into single spaces.
func Normalize(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func writeChildText(buf *bytes.Buffer, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(util.UnescapePunctuations(t.Segment.Value(src)))
			continue
		}
		writeChildText(buf, c, src)
	}
}
