package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestSaveWritesVerbatim(t *testing.T) {
	s := NewSaver(t.TempDir())
	id := uuid.New()
	text := "BREAKING: dam failure floods valley\n\nDetails to follow.\n"

	path, err := s.Save(id, text)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != text {
		t.Errorf("saved content differs:\n got: %q\nwant: %q", got, text)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := NewSaver(t.TempDir())
	id := uuid.New()

	first, err := s.Save(id, "first draft, quite long so truncation matters")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Save(id, "final")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("expected same path for same session, got %q and %q", first, second)
	}

	got, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "final" {
		t.Errorf("expected overwritten content %q, got %q", "final", got)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	s := NewSaver(dir)

	path, err := s.Save(uuid.New(), "report")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("report saved outside target dir: %q", path)
	}
}

func TestSaveWriteError(t *testing.T) {
	// A file where the directory should be forces MkdirAll to fail.
	base := t.TempDir()
	blocked := filepath.Join(base, "taken")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewSaver(filepath.Join(blocked, "reports"))

	_, err := s.Save(uuid.New(), "report")
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
}
