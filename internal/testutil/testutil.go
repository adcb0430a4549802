// Package testutil provides shared test helpers for setting up stores and data dirs.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/notelist/internal/models"
	"github.com/starford/notelist/internal/storage"
	"github.com/starford/notelist/internal/store"
)

// TestDB creates a temporary SQLite store that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "notelist-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name(), filepath.Join(t.TempDir(), "resources"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDataDir creates a temporary plugin data directory with a storage.Provider.
func TestDataDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}

// SeedNote inserts n into db.
func SeedNote(t *testing.T, db *store.DB, n *models.Note) {
	t.Helper()
	if err := db.UpsertNote(context.Background(), n, n.ID+".md", n.ID); err != nil {
		t.Fatalf("seed note %s: %v", n.ID, err)
	}
}
