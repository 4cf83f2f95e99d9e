package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tanisha290/adobe-teamkt-1b/internal/payload"
	"github.com/tanisha290/adobe-teamkt-1b/internal/persona"
)

// Worker processes a single collection job.
type Worker struct {
	analyzer *Analyzer
	log      *slog.Logger
}

func NewWorker(analyzer *Analyzer, log *slog.Logger) *Worker {
	return &Worker{analyzer: analyzer, log: log}
}

// Process runs extraction, ranking and refinement for a job. Document
// failures are recorded on the job and the run continues; the job fails
// only when no document could be extracted or the context is cancelled.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	in := job.Input()
	docs := job.takeDocuments()

	// Phase 1: map every document to an outline and sections.
	job.SetStatus(StatusExtracting, "extracting")
	results, err := w.analyzer.ExtractAll(ctx, docs, func(r DocResult) {
		job.DocumentDone(r.Err != nil)
		if r.Err != nil {
			job.AddError(fmt.Sprintf("%s: %s", r.Filename, r.Err))
		}
	})
	if err != nil {
		log.Error("extraction aborted", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.Info("extraction complete", "documents", len(results), "failed", failed)
	if len(results) > 0 && failed == len(results) {
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	// Phase 2: rank sections collection-wide.
	job.SetStatus(StatusRanking, "ranking")
	kw := w.analyzer.Keywords(persona.Profile(in.Persona), persona.Job(in.Job))
	ranked := w.analyzer.Rank(results, kw)

	// Phase 3: refine the top sections into excerpts.
	job.SetStatus(StatusRefining, "refining")
	ref := w.analyzer.Refine(ranked, kw)

	out := payload.BuildOutput(in, ranked.Sections, ref.Subsections, time.Now())
	job.SetResult(&out)
	log.Info("analysis complete",
		"sections", len(out.ExtractedSections),
		"subsections", len(out.SubsectionAnalysis),
	)

	if failed > 0 {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}
