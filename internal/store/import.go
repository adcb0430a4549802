package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/starford/notelist/internal/models"
	"github.com/starford/notelist/internal/parser"
)

// ResourcesDirName is the folder inside an import directory holding
// resource files named <id>.<extension>.
const ResourcesDirName = "_resources"

var (
	idRe           = regexp.MustCompile(`^[a-z0-9]{32}$`)
	resourceFileRe = regexp.MustCompile(`^([a-z0-9]{32})(?:\.([A-Za-z0-9]+))?$`)
)

// reserved frontmatter keys mapped onto note fields.
var noteKeys = []string{
	"id", "title", "tags", "created", "updated", "todo", "todo_due",
	"todo_completed", "source_url", "confidential", "watched",
}

// ImportStats summarizes an Import run.
type ImportStats struct {
	Notes     int
	Resources int
	Skipped   int
	Removed   int
	// ResourceBytes is the size of the resource files copied.
	ResourceBytes int64
}

func (s ImportStats) String() string {
	return fmt.Sprintf("%d notes, %d resources (%s), %d unchanged, %d removed",
		s.Notes, s.Resources, humanize.Bytes(uint64(s.ResourceBytes)), s.Skipped, s.Removed)
}

// Import brings the store up to date with a directory of Markdown notes:
//   - new/changed resource files are copied into the resources directory
//   - new/changed notes are parsed and upserted
//   - notes whose file disappeared are deleted
func Import(ctx context.Context, db *DB, dir string, logger *slog.Logger) (ImportStats, error) {
	var stats ImportStats

	if err := importResources(ctx, db, filepath.Join(dir, ResourcesDirName), logger, &stats); err != nil {
		return stats, err
	}

	checksums, err := db.AllChecksums(ctx)
	if err != nil {
		return stats, err
	}

	disk := make(map[string]struct{})
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == ResourcesDirName {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, _ := filepath.Rel(dir, p)
		rel = filepath.ToSlash(rel)
		disk[rel] = struct{}{}

		data, err := os.ReadFile(p)
		if err != nil {
			logger.Warn("import: read failed", slog.String("path", rel), slog.String("error", err.Error()))
			return nil
		}
		cs := contentSum(data)
		if checksums[rel] == cs {
			stats.Skipped++
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if err := importFile(ctx, db, rel, data, cs, info); err != nil {
			logger.Warn("import: note failed", slog.String("path", rel), slog.String("error", err.Error()))
			return nil
		}
		stats.Notes++
		logger.Debug("import: note", slog.String("path", rel))
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("store: import: %w", err)
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		id, err := db.NoteIDBySource(ctx, p)
		if err != nil {
			continue
		}
		if err := db.DeleteNote(ctx, id); err != nil {
			logger.Warn("import: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		stats.Removed++
		logger.Debug("import: removed stale", slog.String("path", p))
	}

	return stats, nil
}

// importFile parses data and upserts the note and its resource links.
func importFile(ctx context.Context, db *DB, rel string, data []byte, cs string, info fs.FileInfo) error {
	res, err := parser.Parse(data)
	if err != nil {
		return err
	}

	n := &models.Note{
		ID:            noteID(res.String("id"), rel),
		Title:         res.Title,
		Body:          res.Body,
		CreatedTime:   res.Time("created"),
		UpdatedTime:   res.Time("updated"),
		IsTodo:        res.Bool("todo"),
		TodoDue:       res.Time("todo_due"),
		TodoCompleted: res.Time("todo_completed"),
		Watched:       res.Bool("watched"),
		Confidential:  res.Bool("confidential"),
		SourceURL:     res.String("source_url"),
		Properties:    res.Scalars(noteKeys...),
	}
	if n.Title == "" {
		n.Title = strings.TrimSuffix(filepath.Base(rel), ".md")
	}
	if n.UpdatedTime.IsZero() {
		n.UpdatedTime = info.ModTime().Truncate(time.Millisecond)
	}
	if n.CreatedTime.IsZero() {
		n.CreatedTime = n.UpdatedTime
	}
	for _, t := range res.Tags {
		n.Tags = append(n.Tags, models.Tag{Title: t})
	}

	if err := db.UpsertNote(ctx, n, rel, cs); err != nil {
		return err
	}
	return db.LinkResources(ctx, n.ID, res.ResourceIDs)
}

func importResources(ctx context.Context, db *DB, dir string, logger *slog.Logger, stats *ImportStats) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: import resources: %w", err)
	}
	if err := os.MkdirAll(db.resourcesDir, 0o755); err != nil {
		return fmt.Errorf("store: create resources dir: %w", err)
	}

	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		m := resourceFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			logger.Debug("import: ignoring resource file", slog.String("name", e.Name()))
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			logger.Warn("import: read resource failed", slog.String("name", e.Name()), slog.String("error", err.Error()))
			continue
		}
		cs := contentSum(data)
		if prev, _ := db.ResourceChecksum(ctx, m[1]); prev == cs {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return err
		}

		r := models.Resource{
			ID:            m[1],
			Mime:          detectMime(data),
			FileExtension: strings.ToLower(m[2]),
			UpdatedTime:   info.ModTime().Truncate(time.Millisecond),
		}
		if err := os.WriteFile(db.ResourcePath(r), data, 0o644); err != nil {
			return fmt.Errorf("store: copy resource %s: %w", r.ID, err)
		}
		if err := db.UpsertResource(ctx, r, cs); err != nil {
			return err
		}
		stats.Resources++
		stats.ResourceBytes += int64(len(data))
		logger.Debug("import: resource", slog.String("id", r.ID), slog.String("mime", r.Mime))
	}
	return nil
}

// contentSum identifies file contents for change detection.
func contentSum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func detectMime(data []byte) string {
	mime, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return mime
}

// noteID keeps a valid frontmatter id and otherwise derives a stable one
// from the note's path.
func noteID(fromFrontmatter, rel string) string {
	if idRe.MatchString(fromFrontmatter) {
		return fromFrontmatter
	}
	u := uuid.NewSHA1(uuid.NameSpaceURL, []byte("notelist:"+rel))
	return strings.ReplaceAll(u.String(), "-", "")
}
