// Package tags orders note tags for display.
package tags

import (
	"slices"
	"strings"

	"github.com/maruel/natural"

	"github.com/starford/notelist/internal/models"
)

// Sort returns the tag titles in natural, case-insensitive order.
// Numeric runs compare by value, so "b2" sorts before "b10".
func Sort(tags []models.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Title)
	}
	slices.SortStableFunc(out, Compare)
	return out
}

// Compare orders a and b naturally, ignoring case. Titles that differ only
// in case fall back to a byte-wise comparison so the order stays total.
func Compare(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	switch {
	case natural.Less(la, lb):
		return -1
	case natural.Less(lb, la):
		return 1
	}
	return strings.Compare(a, b)
}
