package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dgallion1/outliner/internal/outline"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleOutline() outline.Outline {
	return outline.Outline{
		Title: "Understanding AI",
		Outline: []outline.Entry{
			{Level: outline.H1, Text: "Introduction", Page: 1},
			{Level: outline.H2, Text: "1.1 History", Page: 2},
			{Level: outline.H3, Text: "1.1.1 Early Work", Page: 3},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	meta := DocumentMeta{
		DocID:       "doc-1",
		Filename:    "ai.pdf",
		ContentHash: "abc123",
		Script:      "latin",
		PageCount:   10,
	}
	if err := s.Save(ctx, meta, sampleOutline()); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, out, err := s.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Filename != "ai.pdf" || got.Script != "latin" || got.PageCount != 10 {
		t.Errorf("unexpected meta: %+v", got)
	}
	if got.HeadingCount != 3 {
		t.Errorf("expected heading count 3, got %d", got.HeadingCount)
	}
	if out.Title != "Understanding AI" {
		t.Errorf("expected title round-trip, got %q", out.Title)
	}
	if len(out.Outline) != 3 {
		t.Fatalf("expected 3 headings, got %+v", out.Outline)
	}
	if out.Outline[2].Level != outline.H3 || out.Outline[2].Page != 3 {
		t.Errorf("heading order or fields lost: %+v", out.Outline)
	}
}

func TestSave_ReplacesHeadings(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	meta := DocumentMeta{DocID: "doc-1", Filename: "a.pdf", ContentHash: "h1"}
	if err := s.Save(ctx, meta, sampleOutline()); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second := outline.Outline{Title: "Revised", Outline: []outline.Entry{
		{Level: outline.H1, Text: "Only Heading", Page: 1},
	}}
	if err := s.Save(ctx, meta, second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, out, err := s.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.HeadingCount != 1 || len(out.Outline) != 1 {
		t.Errorf("expected old headings replaced, got %+v", out.Outline)
	}
	if out.Title != "Revised" {
		t.Errorf("expected updated title, got %q", out.Title)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := testStore(t)
	_, _, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_EmptyOutlineNonNil(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	meta := DocumentMeta{DocID: "empty", Filename: "blank.pdf", ContentHash: "h"}
	if err := s.Save(ctx, meta, outline.Empty()); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, out, err := s.Get(ctx, "empty")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Outline == nil {
		t.Error("expected non-nil outline slice for a stored empty outline")
	}
}

func TestList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		meta := DocumentMeta{DocID: id, Filename: id + ".pdf", ContentHash: "h-" + id}
		if err := s.Save(ctx, meta, outline.Empty()); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	docs, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("expected 3 documents, got %d", len(docs))
	}

	docs, err = s.List(ctx, 2)
	if err != nil {
		t.Fatalf("list with limit: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("expected limit to apply, got %d", len(docs))
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	meta := DocumentMeta{DocID: "doc-1", Filename: "a.pdf", ContentHash: "h"}
	if err := s.Save(ctx, meta, sampleOutline()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete(ctx, "doc-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := s.Get(ctx, "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected document gone, got %v", err)
	}

	// Unknown IDs delete without error.
	if err := s.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("expected no error for unknown id, got %v", err)
	}
}

func TestFindByHash(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	meta := DocumentMeta{DocID: "doc-1", Filename: "a.pdf", ContentHash: "deadbeef"}
	if err := s.Save(ctx, meta, outline.Empty()); err != nil {
		t.Fatalf("save: %v", err)
	}

	id, err := s.FindByHash(ctx, "deadbeef")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if id != "doc-1" {
		t.Errorf("expected doc-1, got %q", id)
	}

	id, err = s.FindByHash(ctx, "unknown")
	if err != nil {
		t.Fatalf("find unknown: %v", err)
	}
	if id != "" {
		t.Errorf("expected empty id for unknown hash, got %q", id)
	}
}
