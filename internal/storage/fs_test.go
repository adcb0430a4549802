package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempDataDir(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempDataDir(t)
	content := []byte{0xff, 0xd8, 0xff}
	if err := s.Write("thumb_a.jpg", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("thumb_a.jpg")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestDelete(t *testing.T) {
	s := tempDataDir(t)
	_ = s.Write("del.jpg", []byte("bye"))
	if err := s.Delete("del.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del.jpg"); err == nil {
		t.Error("expected error reading deleted file")
	}
}

func TestList(t *testing.T) {
	s := tempDataDir(t)
	_ = s.Write("thumb_a.jpg", []byte("a"))
	_ = s.Write("thumb_b.jpg", []byte("b"))
	_ = s.Write("thumb_c.png", []byte("c"))
	_ = s.Write("sub/thumb_d.jpg", []byte("d"))

	items, err := s.List("thumb_*.jpg")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0] != "thumb_a.jpg" || items[1] != "thumb_b.jpg" {
		t.Errorf("List = %v", items)
	}

	if _, err := s.List("[bad"); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestPath(t *testing.T) {
	s := tempDataDir(t)
	p, err := s.Path("thumb_a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join(s.root, "thumb_a.jpg") {
		t.Errorf("Path = %q", p)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempDataDir(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.jpg",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
		if _, err := s.Path(p); err == nil {
			t.Errorf("expected error for path of %q", p)
		}
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempDataDir(t)
	_ = s.Write("atomic.jpg", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("atomic.jpg", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.jpg")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, ".notelist-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plugin", "data")
	if _, err := NewFS(dir); err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("data dir not created: %v", err)
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "notelist-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
