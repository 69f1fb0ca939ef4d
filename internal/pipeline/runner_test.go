package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/outliner/internal/outline"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunner_Run(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	files := map[string]string{
		"guide.md":   "# Guide\n\n## Setup\n\n### Linux\n",
		"notes.md":   "## Only Section\n",
		"readme.txt": "unsupported, must be skipped",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(inDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	r := &Runner{Log: discardLogger(), Workers: 2}
	summary, err := r.Run(context.Background(), inDir, outDir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Processed != 2 {
		t.Errorf("expected 2 processed files, got %d", summary.Processed)
	}
	if summary.Succeeded != 2 || summary.Failed != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "guide.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var out outline.Outline
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if out.Title != "Guide" {
		t.Errorf("expected title %q, got %q", "Guide", out.Title)
	}
	if len(out.Outline) != 2 {
		t.Errorf("expected 2 entries, got %+v", out.Outline)
	}

	if _, err := os.Stat(filepath.Join(outDir, "notes.json")); err != nil {
		t.Errorf("expected notes.json written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "readme.json")); !os.IsNotExist(err) {
		t.Error("expected unsupported file skipped entirely")
	}
}

func TestRunner_DegradedFileStillWritesEmptyOutline(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	// Not a real PDF: fragment extraction fails, the output must still be a
	// valid empty outline.
	if err := os.WriteFile(filepath.Join(inDir, "broken.pdf"), []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := &Runner{Log: discardLogger(), Workers: 1}
	summary, err := r.Run(context.Background(), inDir, outDir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 1 || summary.Failed != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "broken.json"))
	if err != nil {
		t.Fatalf("expected output for the broken file: %v", err)
	}
	var out outline.Outline
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Title != "" || len(out.Outline) != 0 {
		t.Errorf("expected empty outline, got %+v", out)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("degraded output should validate: %v", err)
	}
}

func TestRunner_MissingInputDir(t *testing.T) {
	r := &Runner{Log: discardLogger()}
	if _, err := r.Run(context.Background(), "/nonexistent/input/dir", t.TempDir()); err == nil {
		t.Error("expected error for missing input directory")
	}
}
