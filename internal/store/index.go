package store

import (
	"context"

	"github.com/starford/notelist/internal/models"
)

// NoteStore defines the data store operations the note list depends on.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type NoteStore interface {
	GetNote(ctx context.Context, id string) (*models.Note, error)
	ListNotes(ctx context.Context, limit, offset int) ([]models.Note, int, error)
	GetResources(ctx context.Context, noteID string) ([]models.Resource, error)
	UpdateNote(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error)
}

// Verify *DB satisfies NoteStore at compile time.
var _ NoteStore = (*DB)(nil)
