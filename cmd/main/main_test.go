package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupDataDir writes a small template tree and returns its root.
func setupDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"hello.txt":       "Hello World",
		"notes/a.txt":     "Alpha",
		"notes/b.txt":     "Beta",
		"defs/colors.txt": "[register tags=color]Red[/register]\n[register tags=color]Blue[/register]",
	}
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// runCLI runs the CLI and returns its exit code, stdout and stderr.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun(t *testing.T) {
	dir := setupDataDir(t)

	t.Run("File", func(t *testing.T) {
		code, out, errOut := runCLI(t, "-dir", dir, "[file hello.txt]")
		if code != 0 || out != "Hello World\n" {
			t.Errorf("run() = %d, %q (stderr %q)", code, out, errOut)
		}
	})

	t.Run("All", func(t *testing.T) {
		if _, out, _ := runCLI(t, "-dir", dir, "[all notes]"); out != "Alpha\nBeta\n" {
			t.Errorf("stdout = %q", out)
		}
	})

	t.Run("Library", func(t *testing.T) {
		_, out, _ := runCLI(t, "-dir", dir, "-library", "defs", "[select color]")
		if out != "Red\n" && out != "Blue\n" {
			t.Errorf("stdout = %q, want Red or Blue", out)
		}
	})

	t.Run("Seed", func(t *testing.T) {
		const tmpl = "[ran]a|b|c|d|e|f[/ran][range 1 1000][shuffle]1|2|3[/shuffle]"
		_, first, _ := runCLI(t, "-seed", "99", tmpl)
		_, second, _ := runCLI(t, "-seed", "99", tmpl)
		if first != second {
			t.Errorf("same seed gave %q and %q", first, second)
		}
	})

	t.Run("Out", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		code, out, _ := runCLI(t, "-out", path, "[set x]hi[/set][get x]")
		if code != 0 || out != "" {
			t.Fatalf("run() = %d, %q", code, out)
		}
		data, err := os.ReadFile(path)
		if err != nil || string(data) != "hi\n" {
			t.Errorf("output file = %q, %v", data, err)
		}
	})

	t.Run("MissingTemplate", func(t *testing.T) {
		code, _, errOut := runCLI(t, "-dir", dir)
		if code != 1 || !strings.HasPrefix(errOut, "Error: ") {
			t.Errorf("run() = %d, stderr %q", code, errOut)
		}
	})

	t.Run("Version", func(t *testing.T) {
		code, out, _ := runCLI(t, "-version")
		if code != 0 || !strings.HasPrefix(out, "parsifal ") {
			t.Errorf("run() = %d, %q", code, out)
		}
	})
}

func TestRunDatabase(t *testing.T) {
	dir := setupDataDir(t)
	dbPath := filepath.Join(t.TempDir(), "templates.db")

	code, out, errOut := runCLI(t, "-dir", dir, "-db", dbPath, "-import", "[file hello.txt]")
	if code != 0 || out != "Hello World\n" {
		t.Fatalf("import run = %d, %q (stderr %q)", code, out, errOut)
	}

	// The store now serves templates without the directory.
	code, out, errOut = runCLI(t, "-dir", t.TempDir(), "-db", dbPath, "-library", "defs", "[file notes/b.txt] [select color]")
	if code != 0 || (out != "Beta Red\n" && out != "Beta Blue\n") {
		t.Errorf("database run = %d, %q (stderr %q)", code, out, errOut)
	}
}
