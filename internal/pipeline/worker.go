package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docoutline/internal/classify"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pathstore"
)

// OutlineSink persists finished outlines. *pathstore.Client satisfies it.
type OutlineSink interface {
	PutOutline(ctx context.Context, o pathstore.StoredOutline) error
}

// Worker processes a single document job.
type Worker struct {
	classifier *classify.Classifier
	sink       OutlineSink
	stats      *LatencyStats
	log        *slog.Logger
	parserOpts parser.Options
}

// NewWorker returns a worker. A nil sink skips the storing phase.
func NewWorker(c *classify.Classifier, sink OutlineSink, stats *LatencyStats, log *slog.Logger, opts parser.Options) *Worker {
	return &Worker{
		classifier: c,
		sink:       sink,
		stats:      stats,
		log:        log,
		parserOpts: opts,
	}
}

// Process runs parse, classify and store for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parserOpts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	frags, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	job.releaseFileData()
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	log.Info("parsed document", "fragments", len(frags))

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Classify
	job.SetStatus(StatusClassifying, "classifying")
	start := time.Now()
	trace := w.classifier.Trace(frags)
	elapsed := time.Since(start)
	if w.stats != nil {
		w.stats.Record(elapsed)
	}
	job.SetCounts(len(frags), len(trace.Filtered), len(trace.Outline.Outline))
	job.SetOutline(trace.Outline)
	log.Info("classified document",
		"candidates", len(trace.Filtered),
		"headings", len(trace.Outline.Outline),
		"has_title", trace.Outline.Title != "",
		"duration_ms", elapsed.Milliseconds(),
	)

	// Phase 3: Store
	if w.sink == nil {
		job.SetStatus(StatusCompleted, "done")
		return
	}
	job.SetStatus(StatusStoring, "storing")
	stored := pathstore.StoredOutline{
		DocID:       job.DocID,
		Filename:    job.Filename,
		ContentHash: job.ContentHash,
		Outline:     trace.Outline,
		CreatedAt:   job.CreatedAt.UTC(),
	}
	err = withRetry(ctx, func() error {
		err := w.sink.PutOutline(ctx, stored)
		if err != nil && IsRetryable(err) {
			log.Warn("retryable store error", "error", err)
		}
		return err
	})
	if err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	job.SetStatus(StatusCompleted, "done")
}
