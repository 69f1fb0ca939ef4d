package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/outliner/internal/classify"
	"github.com/dgallion1/outliner/internal/outline"
	"github.com/dgallion1/outliner/internal/source"
	"github.com/dgallion1/outliner/internal/store"
)

// Worker processes a single document job.
type Worker struct {
	engine *classify.Engine
	db     *store.Store
	stats  *ClassifyStats
	log    *slog.Logger
}

func NewWorker(engine *classify.Engine, db *store.Store, stats *ClassifyStats, log *slog.Logger) *Worker {
	return &Worker{
		engine: engine,
		db:     db,
		stats:  stats,
		log:    log,
	}
}

// Process runs the full outline pipeline for a job: dedup check, extract,
// classify, persist. A document whose extraction fails still completes with
// an empty outline; only storage failures fail the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	data := job.FileData()
	job.ContentHash = ContentHashHex(data)

	// Dedup check
	existingDocID, err := w.db.FindByHash(ctx, job.ContentHash)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if existingDocID != "" {
		log.Info("duplicate document, skipping", "existing_doc_id", existingDocID)
		if _, prev, err := w.db.Get(ctx, existingDocID); err == nil {
			job.SetResult(prev)
		}
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 1: Classify
	job.SetStatus(StatusClassifying, "classifying")
	start := time.Now()

	ext, err := source.ForFile(job.Filename, w.engine)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "classifying")
		return
	}

	res, err := ext.Extract(bytes.NewReader(data), job.Filename)
	degraded := false
	if err != nil {
		// Malformed input degrades to an empty outline, never an error to
		// the caller.
		log.Warn("extraction failed, emitting empty outline", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		res = source.Result{Outline: outline.Empty(), Script: "latin"}
		degraded = true
	}
	w.stats.Record(time.Since(start).Milliseconds())

	job.SetProgress(res.Pages, res.FailedPages, res.Fragments, len(res.Outline.Outline))
	log.Info("classification complete",
		"script", res.Script,
		"pages", res.Pages,
		"failed_pages", res.FailedPages,
		"headings", len(res.Outline.Outline))

	// Phase 2: Store
	job.SetStatus(StatusStoring, "storing")
	meta := store.DocumentMeta{
		DocID:       job.DocID,
		Filename:    job.Filename,
		ContentHash: job.ContentHash,
		Script:      res.Script,
		PageCount:   res.Pages,
	}
	if err := w.db.Save(ctx, meta, res.Outline); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	job.SetResult(res.Outline)
	if degraded || res.FailedPages > 0 {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}
