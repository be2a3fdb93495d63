package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/sift/internal/cli"
	"github.com/hyperjump/sift/internal/fileid"
	"github.com/hyperjump/sift/internal/models"
	"github.com/hyperjump/sift/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of documents processed concurrently.
const DefaultWorkers = 4

// Batch processes every document in a directory and writes one JSON record per document.
type Batch struct {
	pipeline   *Pipeline
	store      storage.Storage
	workers    int
	extensions []string
	logger     *zap.Logger
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithStore records runs and document outcomes in s.
func WithStore(s storage.Storage) BatchOption {
	return func(b *Batch) { b.store = s }
}

// WithWorkers sets how many documents are processed at once.
func WithWorkers(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithExtensions restricts input files to the given extensions (with or
// without the leading dot). Empty means every regular, non-hidden file.
func WithExtensions(exts []string) BatchOption {
	return func(b *Batch) { b.extensions = exts }
}

// WithBatchLogger sets the logger.
func WithBatchLogger(l *zap.Logger) BatchOption {
	return func(b *Batch) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBatch creates a batch runner around p.
func NewBatch(p *Pipeline, opts ...BatchOption) *Batch {
	b := &Batch{
		pipeline: p,
		workers:  DefaultWorkers,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RunSummary reports the outcome of one batch run. Documents is in input order.
type RunSummary struct {
	RunID     string
	Processed int
	Failed    int
	Documents []*models.DocumentRecord
	Duration  time.Duration
}

// Run processes the documents in inputDir and writes their results into outputDir.
// A failing document is logged and recorded; the rest of the batch continues.
func (b *Batch) Run(ctx context.Context, inputDir, outputDir string, job models.Job) (*RunSummary, error) {
	job = b.pipeline.fillJob(job)
	files, err := ListInputs(inputDir, b.extensions)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	run := &models.Run{
		ID:        uuid.NewString(),
		Persona:   job.Persona,
		Task:      job.Task,
		InputDir:  inputDir,
		OutputDir: outputDir,
		StartedAt: b.pipeline.now().UTC(),
	}
	if b.store != nil {
		if err := b.store.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
	}
	b.logger.Info("batch started",
		zap.String("run_id", run.ID),
		zap.String("input", inputDir),
		zap.Int("documents", len(files)),
		zap.Int("workers", b.workers),
	)

	records := make([]*models.DocumentRecord, len(files))
	var ledgerMu sync.Mutex
	var g errgroup.Group
	g.SetLimit(b.workers)
	for i, path := range files {
		g.Go(func() error {
			rec := b.processOne(ctx, run.ID, path, outputDir, job)
			records[i] = rec
			if b.store != nil {
				ledgerMu.Lock()
				err := b.store.RecordDocument(context.WithoutCancel(ctx), rec)
				ledgerMu.Unlock()
				if err != nil {
					b.logger.Warn("failed to record document", zap.String("document", rec.Document), zap.Error(err))
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := &RunSummary{RunID: run.ID, Documents: records}
	for _, rec := range records {
		if rec.Status == models.StatusOK {
			summary.Processed++
		} else {
			summary.Failed++
		}
	}
	finished := b.pipeline.now().UTC()
	summary.Duration = finished.Sub(run.StartedAt)
	if b.store != nil {
		if err := b.store.FinishRun(context.WithoutCancel(ctx), run.ID, finished, summary.Processed, summary.Failed); err != nil {
			b.logger.Warn("failed to finish run", zap.String("run_id", run.ID), zap.Error(err))
		}
	}
	b.logger.Info("batch finished",
		zap.String("run_id", run.ID),
		zap.Int("processed", summary.Processed),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", summary.Duration),
	)
	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("batch interrupted: %w", err)
	}
	return summary, nil
}

func (b *Batch) processOne(ctx context.Context, runID, path, outputDir string, job models.Job) *models.DocumentRecord {
	rec := &models.DocumentRecord{
		RunID:      runID,
		DocumentID: fileid.DocumentID(path),
		Document:   filepath.Base(path),
	}
	res, err := b.pipeline.ProcessFile(ctx, path, job)
	if err == nil {
		rec.Sections = res.SectionCount
		rec.Ranked = len(res.ExtractedSections)
		rec.OutputPath = cli.OutputPath(outputDir, rec.Document)
		err = cli.WriteResultFile(rec.OutputPath, res)
		if err != nil {
			rec.OutputPath = ""
		}
	}
	rec.ProcessedAt = b.pipeline.now().UTC()
	if err != nil {
		rec.Status = models.StatusFailed
		rec.ErrorKind = models.Classify(err)
		rec.Error = err.Error()
		b.logger.Warn("document failed",
			zap.String("document", rec.Document),
			zap.String("kind", rec.ErrorKind),
			zap.Error(err),
		)
		return rec
	}
	rec.Status = models.StatusOK
	b.logger.Debug("document processed",
		zap.String("document", rec.Document),
		zap.String("output", rec.OutputPath),
	)
	return rec
}

// ListInputs returns the regular files directly inside dir whose extension is
// allowed, sorted by name. Hidden files are skipped.
func ListInputs(dir string, allowedExts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if len(allowedExts) > 0 && !extensionAllowed(filepath.Ext(name), allowedExts) {
			continue
		}
		path := filepath.Join(dir, name)
		// Stat follows symlinks.
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
