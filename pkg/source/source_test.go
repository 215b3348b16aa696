package source

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"hello.txt":        {Data: []byte("Hello World")},
		"notes/b.txt":      {Data: []byte("Beta")},
		"notes/a.txt":      {Data: []byte("Alpha")},
		"notes/deep/c.txt": {Data: []byte("Gamma")},
		"defs/colors.txt":  {Data: []byte("[register tags=color]Red[/register]")},
	}
}

// setupSQLSource opens a temporary SQLite database and loads testFS into it.
func setupSQLSource(t *testing.T) *SQLSource {
	t.Helper()
	dbFile := filepath.Join(t.TempDir(), "files.db")
	db, err := sql.Open("sqlite3", dbFile+"?_journal_mode=WAL")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}
	// A second call must be harmless.
	if err = SetupSchema(db); err != nil {
		t.Fatalf("SetupSchema is not idempotent: %v", err)
	}

	s, err := NewSQLSource(db, nil)
	if err != nil {
		t.Fatalf("NewSQLSource() error = %v", err)
	}
	t.Cleanup(s.Close)

	n, err := s.Import(context.Background(), testFS())
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if n != 5 {
		t.Fatalf("Import() wrote %d files, want 5", n)
	}
	return s
}

type fileSource interface {
	ReadFile(ctx context.Context, name string) (string, error)
	ListFiles(ctx context.Context, dir string) ([]string, error)
}

// TestSources runs the same expectations against every implementation.
func TestSources(t *testing.T) {
	sources := map[string]fileSource{
		"FSSource":  NewFSSource(testFS()),
		"SQLSource": setupSQLSource(t),
	}
	ctx := context.Background()

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			got, err := src.ReadFile(ctx, "hello.txt")
			if err != nil || got != "Hello World" {
				t.Errorf("ReadFile(hello.txt) = %q, %v", got, err)
			}

			got, err = src.ReadFile(ctx, "./notes/a.txt")
			if err != nil || got != "Alpha" {
				t.Errorf("ReadFile(./notes/a.txt) = %q, %v", got, err)
			}

			_, err = src.ReadFile(ctx, "missing.txt")
			if !errors.Is(err, ErrNotFound) || !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("ReadFile(missing.txt): expected ErrNotFound, got %v", err)
			}

			_, err = src.ReadFile(ctx, "../etc/passwd")
			if !errors.Is(err, ErrInvalidPath) {
				t.Errorf("ReadFile(../etc/passwd): expected ErrInvalidPath, got %v", err)
			}

			names, err := src.ListFiles(ctx, "notes")
			if err != nil {
				t.Fatalf("ListFiles(notes) error = %v", err)
			}
			want := []string{"notes/a.txt", "notes/b.txt"}
			if !reflect.DeepEqual(names, want) {
				t.Errorf("ListFiles(notes) = %q, want %q", names, want)
			}

			names, err = src.ListFiles(ctx, "")
			if err != nil {
				t.Fatalf("ListFiles(root) error = %v", err)
			}
			if !reflect.DeepEqual(names, []string{"hello.txt"}) {
				t.Errorf("ListFiles(root) = %q", names)
			}
		})
	}
}

func TestFSSourceMissingDir(t *testing.T) {
	_, err := NewFSSource(testFS()).ListFiles(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDirSource(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "x.txt"), []byte("on disk"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	got, err := NewDirSource(root).ReadFile(context.Background(), "x.txt")
	if err != nil || got != "on disk" {
		t.Errorf("ReadFile = %q, %v", got, err)
	}
}

func TestSQLSourcePut(t *testing.T) {
	s := setupSQLSource(t)
	ctx := context.Background()

	if err := s.Put(ctx, "hello.txt", "Replaced"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if got, _ := s.ReadFile(ctx, "hello.txt"); got != "Replaced" {
		t.Errorf("ReadFile after Put = %q, want Replaced", got)
	}

	if err := s.Put(ctx, "notes/0.txt", "Zero"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	names, _ := s.ListFiles(ctx, "notes")
	want := []string{"notes/0.txt", "notes/a.txt", "notes/b.txt"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("ListFiles(notes) = %q, want %q", names, want)
	}

	if err := s.Put(ctx, "", "x"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Put(\"\"): expected ErrInvalidPath, got %v", err)
	}
}
