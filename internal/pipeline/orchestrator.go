package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/classify"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/parser"
)

// Orchestrator manages the document outline pipeline.
type Orchestrator struct {
	jobs       *JobStore
	queue      chan *Job
	classifier *classify.Classifier
	sink       OutlineSink
	stats      *LatencyStats
	log        *slog.Logger
	cfg        config.Config

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.RWMutex
	stopped  bool
	stopOnce sync.Once
}

// NewOrchestrator creates the pipeline. A nil sink keeps outlines in memory
// only.
func NewOrchestrator(cfg config.Config, sink OutlineSink, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:       NewJobStore(cfg.JobTTL),
		queue:      make(chan *Job, cfg.MaxQueueSize),
		classifier: classify.New(cfg.ClassifyConfig()),
		sink:       sink,
		stats:      NewLatencyStats(time.Hour),
		log:        log,
		cfg:        cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	opts := parser.Options{FallbackPdftotext: o.cfg.PDFFallbackPdftotext}
	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.classifier, o.sink, o.stats, o.log, opts)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Queued jobs that no worker picked
// up are abandoned.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		o.mu.Lock()
		o.stopped = true
		close(o.queue)
		o.mu.Unlock()

		if o.cancel != nil {
			o.cancel()
		}
		o.wg.Wait()
	})
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.stopped {
		job.SetStatus(StatusFailed, "shutdown")
		return fmt.Errorf("pipeline is shutting down")
	}
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Classifier returns the shared classifier for synchronous requests.
func (o *Orchestrator) Classifier() *classify.Classifier {
	return o.classifier
}

// Stats returns the classification latency tracker.
func (o *Orchestrator) Stats() *LatencyStats {
	return o.stats
}
