package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/HironOficial/wfi/internal/config"
	"github.com/HironOficial/wfi/internal/extract"
)

// Orchestrator manages the extraction job queue. It owns the shared
// classification worker pool: one bounded pool for the whole process,
// shut down explicitly with the orchestrator.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	pool  *extract.Pool
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		pool:  extract.NewPool(cfg.PoolSize, cfg.WorkerTimeout),
		log:   log,
		cfg:   cfg,
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
			extractor := &Extractor{
				BaseURL:     o.cfg.FigmaBaseURL,
				Runner:      o.pool,
				Log:         o.log,
				ChunkTarget: o.cfg.ChunkTarget,
				FontLimit:   o.cfg.FontLookupLimit,
			}
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.process(workerCtx, extractor, job)
				}
			}
		}()
	}

	// Job store cleanup.
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

func (o *Orchestrator) process(ctx context.Context, extractor *Extractor, job *Job) {
	log := o.log.With("job_id", job.ID, "file_id", job.FileID)

	assets, err := extractor.Run(ctx, job.Request(), Hooks{
		OnPhase:  job.SetStatus,
		OnChunks: job.SetChunkProgress,
	})
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "failed")
		return
	}

	job.SetAssets(assets)
	job.SetStatus(StatusCompleted, "done")
	log.Info("extraction complete", "assets", len(assets))
}

// Stop gracefully shuts down the pipeline and its worker pool.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
	o.pool.Close()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
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
