package pipeline

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/starman154/syllabus-scanner-server/internal/store"
)

// Poller drives the worker binary: it claims queued jobs from the jobs
// table at a fixed interval and runs each through the processor. Multiple
// workers can poll the same table; the claim is a conditional update, so
// a job is only ever processed once.
type Poller struct {
	store     *store.Store
	processor *Processor
	log       *slog.Logger
	interval  time.Duration
}

func NewPoller(st *store.Store, processor *Processor, log *slog.Logger, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		store:     st,
		processor: processor,
		log:       log,
		interval:  interval,
	}
}

// Run polls until the context is canceled. After each claimed job it
// immediately tries for another, so a backlog drains without waiting out
// the interval between jobs.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		for {
			claimed, err := p.runOne(ctx)
			if err != nil {
				p.log.Error("job claim failed", "error", err)
				break
			}
			if !claimed {
				break
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// runOne claims and processes a single job. It reports whether a job was
// claimed; processing failures are recorded on the job, not returned.
func (p *Poller) runOne(ctx context.Context) (bool, error) {
	job, err := p.store.ClaimJob(ctx)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	log := p.log.With("job_id", job.ID, "filename", job.Filename)
	log.Info("processing job", "attempt", job.Attempts)

	result, err := p.processor.ProcessPath(ctx, job.Filename, job.FilePath)
	if err != nil {
		log.Error("processing failed", "error", err)
		if failErr := p.store.FailJob(ctx, job.ID, err.Error()); failErr != nil {
			log.Error("job status update failed", "error", failErr)
		}
		p.removeSpooled(log, job.FilePath)
		return true, nil
	}

	if err := p.store.CompleteJob(ctx, job.ID, result.CourseID); err != nil {
		log.Error("job status update failed", "error", err)
	}
	p.removeSpooled(log, job.FilePath)
	log.Info("completed", "course_id", result.CourseID, "assignments_saved", result.AssignmentsSaved)
	return true, nil
}

func (p *Poller) removeSpooled(log *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn("spooled upload cleanup failed", "path", path, "error", err)
	}
}
