// Package runner is the dispatch harness: it fans the Filter→Pad pipeline
// out across every CSV file in a source directory, one pipeline per file,
// over a fixed-size worker pool. Per-file failures are logged and recorded;
// they never abort sibling files.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"spxalign/internal/align"
	"spxalign/internal/grid"
	"spxalign/internal/store"
	"spxalign/internal/table"
)

// Runner executes one alignment job: a shared precomputed grid applied to
// every input file independently.
type Runner struct {
	grid       *grid.Grid
	start, end time.Time
	srcDir     string
	outDir     string
	maxWorkers int
	runs       *store.RunStore // optional job report
	log        *slog.Logger
}

// Summary aggregates a job's outcome.
type Summary struct {
	Files     int
	Processed int
	Failed    int
}

// New creates a Runner. maxWorkers <= 0 selects NumCPU-1. The run store is
// optional; pass nil to skip the job report.
func New(g *grid.Grid, start, end time.Time, srcDir, outDir string, maxWorkers int, runs *store.RunStore, log *slog.Logger) *Runner {
	if maxWorkers <= 0 {
		maxWorkers = max(runtime.NumCPU()-1, 1)
	}
	return &Runner{
		grid:       g,
		start:      start,
		end:        end,
		srcDir:     srcDir,
		outDir:     outDir,
		maxWorkers: maxWorkers,
		runs:       runs,
		log:        log.With("component", "runner"),
	}
}

// Run discovers input files, resets the output directory, and processes
// each file through Filter→Pad→write on the worker pool. It returns an
// error only for job-level failures; per-file errors are counted in the
// summary.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	files, err := listCSVFiles(r.srcDir)
	if err != nil {
		return Summary{}, fmt.Errorf("discovering input files: %w", err)
	}
	if len(files) == 0 {
		r.log.Warn("no CSV files found", "src", r.srcDir)
		return Summary{}, nil
	}

	// Fresh output directory each run, matching the upstream tool.
	if err := os.RemoveAll(r.outDir); err != nil {
		return Summary{}, fmt.Errorf("removing output dir: %w", err)
	}
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output dir: %w", err)
	}

	fileCh := make(chan int, len(files))
	for i := range files {
		fileCh <- i
	}
	close(fileCh)

	var (
		wg        sync.WaitGroup
		processed atomic.Int64
		failed    atomic.Int64
		runStart  = time.Now()
	)

	workers := min(r.maxWorkers, len(files))
	r.log.Info("starting job",
		"files", len(files),
		"workers", workers,
		"start", r.start.Format("2006-01-02"),
		"end", r.end.Format("2006-01-02"),
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileCh {
				if ctx.Err() != nil {
					return
				}

				file := files[idx]
				result := r.processFile(file)
				if result.Status == store.StatusOK {
					processed.Add(1)
					r.log.Debug("file processed",
						"file", filepath.Base(file),
						"rows_in", result.RowsIn,
						"rows_out", result.RowsOut,
						"padded", result.Padded,
					)
				} else {
					failed.Add(1)
					r.log.Error("file failed",
						"file", filepath.Base(file),
						"error", result.Error,
					)
				}

				if r.runs != nil {
					if err := r.runs.Record(ctx, result); err != nil {
						r.log.Warn("recording run result", "file", filepath.Base(file), "error", err)
					}
				}

				done := processed.Load() + failed.Load()
				if done%50 == 0 || done == int64(len(files)) {
					r.log.Info("progress",
						"done", done,
						"total", len(files),
						"failed", failed.Load(),
						"elapsed", time.Since(runStart).Round(time.Second).String(),
					)
				}
			}
		}()
	}
	wg.Wait()

	summary := Summary{
		Files:     len(files),
		Processed: int(processed.Load()),
		Failed:    int(failed.Load()),
	}
	r.log.Info("job complete",
		"files", summary.Files,
		"processed", summary.Processed,
		"failed", summary.Failed,
		"elapsed", time.Since(runStart).Round(time.Millisecond).String(),
	)
	return summary, ctx.Err()
}

// processFile runs the full pipeline for one input file. Every failure is
// captured in the returned RunResult; nothing is written on error.
func (r *Runner) processFile(path string) store.RunResult {
	result := store.RunResult{
		File:       filepath.Base(path),
		FinishedAt: time.Now(),
	}

	tbl, err := table.ReadCSV(path)
	if err != nil {
		result.Status = store.StatusError
		result.Error = err.Error()
		return result
	}
	result.RowsIn = tbl.Len()

	filtered := align.Filter(tbl, r.grid, r.start, r.end, r.log)
	padded := align.Pad(filtered, r.grid, r.start, r.end, r.log)
	result.RowsOut = padded.Len()
	result.Padded = padded.Len() - filtered.Len()

	outPath := filepath.Join(r.outDir, filepath.Base(path))
	if err := table.WriteCSV(padded, outPath); err != nil {
		result.Status = store.StatusError
		result.Error = err.Error()
		return result
	}

	result.Status = store.StatusOK
	result.FinishedAt = time.Now()
	return result
}

// listCSVFiles returns the sorted paths of all .csv files directly under dir.
func listCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
