package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/legalchunk/internal/chunker"
	"github.com/dgallion1/legalchunk/internal/config"
	"github.com/dgallion1/legalchunk/internal/manifest"
	"github.com/dgallion1/legalchunk/internal/parser"
)

// ErrQueueFull is returned by Submit when no queue slot is free.
var ErrQueueFull = errors.New("job queue is full")

// ErrStopped is returned when jobs are offered after Stop.
var ErrStopped = errors.New("pipeline stopped")

// failedURLsFile is the crawler's failure log that sits next to the inputs.
const failedURLsFile = "failed_urls.txt"

// Orchestrator manages the document chunking pipeline.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	deps     Deps
	stats    *Stats
	log      *slog.Logger
	cfg      config.Config
	chunkCfg chunker.Config

	mu      sync.RWMutex
	stopped bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, deps Deps, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		deps:  deps,
		stats: NewStats(time.Hour),
		log:   log,
		cfg:   cfg,
		chunkCfg: chunker.Config{
			MaxTokens: cfg.MaxTokens,
			Footnotes: cfg.Footnotes(),
		},
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.deps, o.chunkCfg, o.stats, o.log)
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

// Stop cancels in-flight work, fails whatever is still queued and waits
// for the workers to exit.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	// Queued jobs are failed so their waiters are released.
	done := make(chan struct{})
	go func() {
		for job := range o.queue {
			job.AddError(ErrStopped.Error())
			job.SetStatus(StatusFailed, "stopped")
		}
		close(done)
	}()
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
	<-done
}

// Submit queues a new job for processing without blocking.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.stopped {
		return ErrStopped
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// Enqueue queues a job, waiting for a free slot until ctx is done.
func (o *Orchestrator) Enqueue(ctx context.Context, job *Job) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.stopped {
		return ErrStopped
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	case <-ctx.Done():
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "cancelled")
		return ctx.Err()
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

// Stats returns the processing statistics.
func (o *Orchestrator) Stats() *Stats {
	return o.stats
}

// Manifest returns the run manifest, nil when resume is disabled.
func (o *Orchestrator) Manifest() *manifest.Store {
	return o.deps.Manifest
}

// Config returns the pipeline configuration.
func (o *Orchestrator) Config() config.Config {
	return o.cfg
}

// Summary tallies a batch run. OverBudget counts documents with a chunk
// that had to be split; Oversized counts documents still holding a unit over
// the budget, such as a single line no split can shorten.
type Summary struct {
	Total      int `json:"total"`
	Succeeded  int `json:"succeeded"`
	OverBudget int `json:"over_budget"`
	Oversized  int `json:"oversized"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// Add counts one finished job.
func (s *Summary) Add(snap JobSnapshot) {
	s.Total++
	switch snap.Status {
	case StatusCompleted:
		s.Succeeded++
		if snap.Progress.OverBudget {
			s.OverBudget++
		}
		if snap.Progress.OversizedUnits > 0 {
			s.Oversized++
		}
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// InputFiles lists the supported documents directly inside dir, sorted by
// name. The crawler's failure log is never treated as a document.
func InputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == failedURLsFile || !parser.IsSupportedExtension(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// SubmitFile reads path and enqueues it as a job.
func (o *Orchestrator) SubmitFile(ctx context.Context, path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	job := NewJob(filepath.Base(path), data)
	job.Force = o.cfg.Force
	if err := o.Enqueue(ctx, job); err != nil {
		return job, err
	}
	return job, nil
}

// RunDir chunks every supported document in dir and waits for all of them.
// A failing document is counted and never stops the batch.
func (o *Orchestrator) RunDir(ctx context.Context, dir string) (Summary, error) {
	var sum Summary
	files, err := InputFiles(dir)
	if err != nil {
		return sum, err
	}
	o.log.Info("batch started", "dir", dir, "files", len(files))

	var jobs []*Job
	for _, path := range files {
		job, err := o.SubmitFile(ctx, path)
		if err != nil {
			o.log.Error("enqueue failed", "file", path, "error", err)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return sum, err
			}
			sum.Total++
			sum.Failed++
			continue
		}
		jobs = append(jobs, job)
	}

	for _, job := range jobs {
		if err := job.Wait(ctx); err != nil {
			return sum, err
		}
		sum.Add(job.Snapshot())
	}

	o.log.Info("batch complete",
		"total", sum.Total,
		"succeeded", sum.Succeeded,
		"over_budget", sum.OverBudget,
		"oversized", sum.Oversized,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
	)
	return sum, nil
}
