package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/notelist/internal/apperr"
	"github.com/starford/notelist/internal/models"
)

const noteColumns = `id, title, body, created_time, updated_time, is_todo, todo_due,
	todo_completed, watched, confidential, source_url, properties`

// UpsertNote inserts or replaces a note and its tags within a transaction.
// sourcePath and checksum identify the imported file the note came from.
func (db *DB) UpsertNote(ctx context.Context, n *models.Note, sourcePath, checksum string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	props := n.Properties
	if props == nil {
		props = map[string]string{}
	}
	propsJSON, _ := json.Marshal(props)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notes (id, title, body, created_time, updated_time, is_todo, todo_due,
			todo_completed, watched, confidential, source_url, properties, source_path, checksum)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title          = excluded.title,
			body           = excluded.body,
			created_time   = excluded.created_time,
			updated_time   = excluded.updated_time,
			is_todo        = excluded.is_todo,
			todo_due       = excluded.todo_due,
			todo_completed = excluded.todo_completed,
			watched        = excluded.watched,
			confidential   = excluded.confidential,
			source_url     = excluded.source_url,
			properties     = excluded.properties,
			source_path    = excluded.source_path,
			checksum       = excluded.checksum
	`, n.ID, n.Title, n.Body, models.Millis(n.CreatedTime), models.Millis(n.UpdatedTime),
		n.IsTodo, models.Millis(n.TodoDue), models.Millis(n.TodoCompleted), n.Watched,
		n.Confidential, n.SourceURL, string(propsJSON), sourcePath, checksum)
	if err != nil {
		return fmt.Errorf("store: upsert note: %w", err)
	}

	// Replace tags: delete old then bulk insert.
	if _, err := tx.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, n.ID); err != nil {
		return fmt.Errorf("store: clear tags: %w", err)
	}
	if len(n.Tags) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO note_tags (note_id, title) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("store: prepare tag insert: %w", err)
		}
		defer stmt.Close()
		for _, tag := range n.Tags {
			if _, err := stmt.ExecContext(ctx, n.ID, tag.Title); err != nil {
				return fmt.Errorf("store: insert tag: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteNote removes a note together with its tags and resource links.
func (db *DB) DeleteNote(ctx context.Context, id string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	}
	return nil
}

// GetNote returns a single note with its tags.
func (db *DB) GetNote(ctx context.Context, id string) (*models.Note, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: note %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get note: %w", err)
	}
	if n.Tags, err = db.noteTags(ctx, id); err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotes returns a page of notes, most recently updated first, and the
// total number of notes.
func (db *DB) ListNotes(ctx context.Context, limit, offset int) ([]models.Note, int, error) {
	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM notes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count notes: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes ORDER BY updated_time DESC, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list notes: %w", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("store: scan note: %w", err)
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range out {
		if out[i].Tags, err = db.noteTags(ctx, out[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

// UpdateNote applies patch to a note, bumps its updated time and returns the
// stored result.
func (db *DB) UpdateNote(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error) {
	sets := []string{"updated_time = ?"}
	args := []any{time.Now().UnixMilli()}
	if patch.TodoCompleted != nil {
		sets = append(sets, "todo_completed = ?")
		args = append(args, models.Millis(*patch.TodoCompleted))
	}
	if patch.Confidential != nil {
		sets = append(sets, "confidential = ?")
		args = append(args, *patch.Confidential)
	}
	args = append(args, id)

	query := "UPDATE notes SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: update note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("store: note %s: %w", id, apperr.ErrNotFound)
	}
	return db.GetNote(ctx, id)
}

// AllChecksums maps the source path of every imported note to its checksum.
func (db *DB) AllChecksums(ctx context.Context) (map[string]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT source_path, checksum FROM notes WHERE source_path != ''`)
	if err != nil {
		return nil, fmt.Errorf("store: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// NoteIDBySource returns the id of the note imported from sourcePath.
func (db *DB) NoteIDBySource(ctx context.Context, sourcePath string) (string, error) {
	var id string
	err := db.conn.QueryRowContext(ctx, `SELECT id FROM notes WHERE source_path = ?`, sourcePath).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	return id, err
}

// UpsertResource inserts or replaces resource metadata.
func (db *DB) UpsertResource(ctx context.Context, r models.Resource, checksum string) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO resources (id, mime, file_extension, updated_time, checksum)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mime           = excluded.mime,
			file_extension = excluded.file_extension,
			updated_time   = excluded.updated_time,
			checksum       = excluded.checksum
	`, r.ID, r.Mime, r.FileExtension, models.Millis(r.UpdatedTime), checksum)
	if err != nil {
		return fmt.Errorf("store: upsert resource: %w", err)
	}
	return nil
}

// ResourceChecksum returns the stored checksum of a resource, or "" if unknown.
func (db *DB) ResourceChecksum(ctx context.Context, id string) (string, error) {
	var cs string
	err := db.conn.QueryRowContext(ctx, `SELECT checksum FROM resources WHERE id = ?`, id).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return cs, err
}

// LinkResources replaces the resource links of a note.
func (db *DB) LinkResources(ctx context.Context, noteID string, resourceIDs []string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM note_resources WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("store: clear resource links: %w", err)
	}
	for _, rid := range resourceIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO note_resources (note_id, resource_id) VALUES (?, ?)`, noteID, rid); err != nil {
			return fmt.Errorf("store: link resource: %w", err)
		}
	}
	return tx.Commit()
}

// GetResources returns the known resources linked to a note.
func (db *DB) GetResources(ctx context.Context, noteID string) ([]models.Resource, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT r.id, r.mime, r.file_extension, r.updated_time
		FROM note_resources nr
		JOIN resources r ON r.id = nr.resource_id
		WHERE nr.note_id = ?
		ORDER BY r.id
	`, noteID)
	if err != nil {
		return nil, fmt.Errorf("store: get resources: %w", err)
	}
	defer rows.Close()

	var out []models.Resource
	for rows.Next() {
		var r models.Resource
		var updated int64
		if err := rows.Scan(&r.ID, &r.Mime, &r.FileExtension, &updated); err != nil {
			return nil, err
		}
		r.UpdatedTime = models.FromMillis(updated)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ResourcePath returns the location of a resource file.
func (db *DB) ResourcePath(r models.Resource) string {
	name := r.ID
	if r.FileExtension != "" {
		name += "." + r.FileExtension
	}
	return filepath.Join(db.resourcesDir, name)
}

func (db *DB) noteTags(ctx context.Context, noteID string) ([]models.Tag, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT title FROM note_tags WHERE note_id = ? ORDER BY rowid`, noteID)
	if err != nil {
		return nil, fmt.Errorf("store: note tags: %w", err)
	}
	defer rows.Close()
	var out []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.Title); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	var (
		n                                models.Note
		created, updated, due, completed int64
		isTodo, watched, confidential    bool
		props                            string
	)
	err := s.Scan(&n.ID, &n.Title, &n.Body, &created, &updated, &isTodo, &due,
		&completed, &watched, &confidential, &n.SourceURL, &props)
	if err != nil {
		return nil, err
	}
	n.CreatedTime = models.FromMillis(created)
	n.UpdatedTime = models.FromMillis(updated)
	n.TodoDue = models.FromMillis(due)
	n.TodoCompleted = models.FromMillis(completed)
	n.IsTodo, n.Watched, n.Confidential = isTodo, watched, confidential
	if props != "" && props != "{}" {
		if err := json.Unmarshal([]byte(props), &n.Properties); err != nil {
			return nil, fmt.Errorf("decode properties: %w", err)
		}
	}
	return &n, nil
}
