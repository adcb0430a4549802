// Package parser extracts frontmatter, tags, and resource references from
// Markdown note files.
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	resourceRe = regexp.MustCompile(`:/([a-z0-9]{32})`)
	tagRe      = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)
)

// timeLayouts are the accepted frontmatter date formats besides YAML timestamps.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Result holds the output of parsing a Markdown note file.
type Result struct {
	Frontmatter map[string]any
	Body        string
	ResourceIDs []string
	Tags        []string
	Title       string
}

// Parse extracts frontmatter, body, resource references, and tags from raw
// Markdown bytes.
func Parse(data []byte) (*Result, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	return &Result{
		Frontmatter: fm,
		Body:        body,
		ResourceIDs: extractResourceRefs(body),
		Tags:        extractTags(body, fm),
		Title:       deriveTitle(fm, body),
	}, nil
}

// String returns a frontmatter value as text, or "" if absent.
func (r *Result) String(key string) string {
	v, ok := r.Frontmatter[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

// Bool returns a frontmatter flag; "true", "yes" and 1 count as set.
func (r *Result) Bool(key string) bool {
	switch v := r.Frontmatter[key].(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true
		}
	}
	return false
}

// Time returns a frontmatter timestamp. YAML timestamps, the layouts above
// and millisecond epoch integers are understood; anything else is zero.
func (r *Result) Time(key string) time.Time {
	switch v := r.Frontmatter[key].(type) {
	case time.Time:
		return v
	case int:
		if v == 0 {
			return time.Time{}
		}
		return time.UnixMilli(int64(v))
	case string:
		v = strings.TrimSpace(v)
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
			return time.UnixMilli(ms)
		}
		for _, layout := range timeLayouts {
			if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// Scalars returns every scalar frontmatter value not in skip, as text.
func (r *Result) Scalars(skip ...string) map[string]string {
	out := make(map[string]string)
	for k, v := range r.Frontmatter {
		if contains(skip, k) {
			continue
		}
		switch v.(type) {
		case []any, map[string]any, nil:
			continue
		}
		out[k] = r.String(k)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data []byte) (map[string]any, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	// Find end delimiter.
	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter, treat everything as body.
		return nil, string(data), nil
	}

	yamlBlock := rest[:idx]
	// Body starts after closing delimiter line.
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML: return body only, no error.
		return nil, string(data), nil
	}

	return fm, body, nil
}

// extractResourceRefs returns the distinct resource ids referenced in body,
// in order of first appearance.
func extractResourceRefs(body string) []string {
	matches := resourceRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		id := m[1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// extractTags collects tags from the frontmatter "tags" field and #tags in body.
func extractTags(body string, fm map[string]any) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}

	if fm != nil {
		switch v := fm["tags"].(type) {
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					add(s)
				}
			}
		case string:
			for _, s := range strings.Split(v, ",") {
				add(s)
			}
		}
	}

	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}

	return out
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]any, body string) string {
	if fm != nil {
		if s, ok := fm["title"].(string); ok && s != "" {
			return s
		}
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
