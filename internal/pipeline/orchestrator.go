package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tanisha290/adobe-teamkt-1b/internal/config"
	"github.com/tanisha290/adobe-teamkt-1b/internal/layout"
	"github.com/tanisha290/adobe-teamkt-1b/internal/parser"
	"github.com/tanisha290/adobe-teamkt-1b/internal/ranking"
)

// OptionsFromConfig maps the environment configuration onto analyzer
// options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Workers:   cfg.DocumentWorkers,
		Timeout:   cfg.DocumentTimeout,
		MaxRanked: cfg.MaxRankedSections,
		Subsections: ranking.SubsectionOptions{
			Sections:   cfg.SubsectionSections,
			PerSection: cfg.SubsectionsPerSection,
			MinScore:   cfg.MinSubsectionScore,
			MaxChars:   ranking.DefaultSubsectionOptions().MaxChars,
		},
		Parser: parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext},
		Layout: layout.DefaultConfig(),
	}
}

// Orchestrator manages queued collection analyses.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	analyzer *Analyzer
	log      *slog.Logger
	cfg      config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, analyzer *Analyzer, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		analyzer: analyzer,
		log:      log,
		cfg:      cfg,
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
			w := NewWorker(o.analyzer, o.log)
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

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		o.log.Info("job queued", "job_id", job.ID, "documents", len(job.Documents))
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

// Jobs lists every retained job, newest first.
func (o *Orchestrator) Jobs() []JobSnapshot {
	return o.jobs.List()
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Analyzer returns the analyzer for synchronous use by API handlers.
func (o *Orchestrator) Analyzer() *Analyzer {
	return o.analyzer
}
