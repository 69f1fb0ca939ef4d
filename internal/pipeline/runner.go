package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/outliner/internal/classify"
	"github.com/dgallion1/outliner/internal/outline"
	"github.com/dgallion1/outliner/internal/source"
)

// Runner drives batch extraction over a directory of documents without the
// job queue or the database: one JSON outline per input file, written next
// to the output directory.
type Runner struct {
	Engine  *classify.Engine
	Log     *slog.Logger
	Workers int
}

// Summary aggregates one batch run.
type Summary struct {
	Processed int
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// Run processes every supported file under inputDir and writes one
// <stem>.json per input into outputDir. A file that cannot be parsed still
// produces a valid empty outline, so downstream consumers never see a
// missing output.
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) (Summary, error) {
	start := time.Now()

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("read input dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !source.IsSupportedExtension(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output dir: %w", err)
	}

	workers := r.Workers
	if workers <= 0 {
		workers = 4
	}

	var (
		mu      sync.Mutex
		summary Summary
	)
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, name := range files {
		select {
		case <-ctx.Done():
			wg.Wait()
			summary.Elapsed = time.Since(start)
			return summary, ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer func() { <-sem }()

			ok := r.processFile(name, inputDir, outputDir)

			mu.Lock()
			summary.Processed++
			if ok {
				summary.Succeeded++
			} else {
				summary.Failed++
			}
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	summary.Elapsed = time.Since(start)
	return summary, nil
}

// processFile extracts one document and writes its outline. Returns false
// when extraction degraded to an empty outline.
func (r *Runner) processFile(name, inputDir, outputDir string) bool {
	log := r.Log.With("file", name)

	outPath := filepath.Join(outputDir, stem(name)+".json")

	f, err := os.Open(filepath.Join(inputDir, name))
	if err != nil {
		log.Error("open failed", "error", err)
		writeOutline(outPath, outline.Empty(), log)
		return false
	}
	defer f.Close()

	ext, err := source.ForFile(name, r.Engine)
	if err != nil {
		log.Error("unsupported format", "error", err)
		writeOutline(outPath, outline.Empty(), log)
		return false
	}

	res, err := ext.Extract(f, name)
	if err != nil {
		log.Warn("extraction failed, writing empty outline", "error", err)
		writeOutline(outPath, outline.Empty(), log)
		return false
	}

	log.Info("extracted",
		"script", res.Script,
		"pages", res.Pages,
		"headings", len(res.Outline.Outline))
	return writeOutline(outPath, res.Outline, log)
}

func writeOutline(path string, out outline.Outline, log *slog.Logger) bool {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Error("marshal failed", "error", err)
		return false
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		log.Error("write failed", "path", path, "error", err)
		return false
	}
	return true
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
