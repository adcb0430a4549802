package thumbnail

import (
	"regexp"

	"github.com/starford/notelist/internal/models"
)

var resourceRefRe = regexp.MustCompile(`:/([a-z0-9]{32})`)

var eligibleMimes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// ResourceOrder returns the resource ids referenced in body, in order of
// appearance. Duplicates are kept.
func ResourceOrder(body string) []string {
	matches := resourceRefRe.FindAllStringSubmatch(body, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// Eligible reports whether a resource can be turned into a thumbnail.
func Eligible(r models.Resource) bool {
	return eligibleMimes[r.Mime]
}

// FileName is the data directory name of a resource's thumbnail.
func FileName(resourceID string) string {
	return "thumb_" + resourceID + ".jpg"
}

// Candidates returns the eligible resources in reference order, each at
// most once.
func Candidates(order []string, resources []models.Resource) []models.Resource {
	byID := make(map[string]models.Resource, len(resources))
	for _, r := range resources {
		byID[r.ID] = r
	}
	seen := make(map[string]bool, len(order))
	var out []models.Resource
	for _, id := range order {
		if seen[id] {
			continue
		}
		seen[id] = true
		if r, ok := byID[id]; ok && Eligible(r) {
			out = append(out, r)
		}
	}
	return out
}
