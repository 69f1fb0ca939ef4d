package pipeline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/outliner/internal/classify"
	"github.com/dgallion1/outliner/internal/store"
)

func testWorker(t *testing.T) (*Worker, *store.Store) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	engine := classify.NewEngine(classify.DefaultOptions())
	return NewWorker(engine, db, NewClassifyStats(time.Hour), discardLogger()), db
}

func mdJob(id, docID string) *Job {
	now := time.Now()
	job := &Job{
		ID: id, DocID: docID,
		Status: StatusQueued, Phase: "queued",
		Filename:  "guide.md",
		CreatedAt: now, UpdatedAt: now,
	}
	job.SetFileData([]byte("# Field Guide\n\n## Birds\n\n### Raptors\n"))
	return job
}

func TestWorker_ProcessMarkdown(t *testing.T) {
	w, db := testWorker(t)
	ctx := context.Background()

	job := mdJob("job-1", "doc-1")
	w.Process(ctx, job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors: %v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.Headings != 2 {
		t.Errorf("expected 2 headings recorded, got %d", snap.Progress.Headings)
	}

	out, ok := job.Result()
	if !ok {
		t.Fatal("expected a result on the job")
	}
	if out.Title != "Field Guide" {
		t.Errorf("expected title %q, got %q", "Field Guide", out.Title)
	}

	// The outline must also be persisted.
	meta, stored, err := db.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if meta.Filename != "guide.md" || stored.Title != "Field Guide" {
		t.Errorf("unexpected stored document: %+v / %+v", meta, stored)
	}
}

func TestWorker_DuplicateSkipped(t *testing.T) {
	w, _ := testWorker(t)
	ctx := context.Background()

	first := mdJob("job-1", "doc-1")
	w.Process(ctx, first)
	if first.Snapshot().Status != StatusCompleted {
		t.Fatalf("setup: first job did not complete: %+v", first.Snapshot())
	}

	// Same bytes under a new doc ID: skipped, with the prior result attached.
	second := mdJob("job-2", "doc-2")
	w.Process(ctx, second)

	if second.Snapshot().Status != StatusDupSkipped {
		t.Fatalf("expected duplicate skip, got %q", second.Snapshot().Status)
	}
	out, ok := second.Result()
	if !ok {
		t.Fatal("expected the existing outline on the skipped job")
	}
	if out.Title != "Field Guide" {
		t.Errorf("expected existing title, got %q", out.Title)
	}
}

func TestWorker_UnsupportedExtensionFails(t *testing.T) {
	w, _ := testWorker(t)

	now := time.Now()
	job := &Job{ID: "job-x", DocID: "doc-x", Filename: "data.csv",
		Status: StatusQueued, CreatedAt: now, UpdatedAt: now}
	job.SetFileData([]byte("a,b,c"))
	w.Process(context.Background(), job)

	if job.Snapshot().Status != StatusFailed {
		t.Errorf("expected failed status, got %q", job.Snapshot().Status)
	}
}

func TestWorker_MalformedDocumentDegrades(t *testing.T) {
	w, db := testWorker(t)
	ctx := context.Background()

	now := time.Now()
	job := &Job{ID: "job-b", DocID: "doc-b", Filename: "broken.pdf",
		Status: StatusQueued, CreatedAt: now, UpdatedAt: now}
	job.SetFileData([]byte("this is not a pdf"))
	w.Process(ctx, job)

	snap := job.Snapshot()
	if snap.Status != StatusPartial {
		t.Fatalf("expected partial status, got %q", snap.Status)
	}
	out, ok := job.Result()
	if !ok {
		t.Fatal("expected an empty outline result")
	}
	if out.Title != "" || len(out.Outline) != 0 {
		t.Errorf("expected empty outline, got %+v", out)
	}

	// Degraded documents are still persisted for dedup.
	if _, _, err := db.Get(ctx, "doc-b"); err != nil {
		t.Errorf("expected the degraded document stored: %v", err)
	}
}
