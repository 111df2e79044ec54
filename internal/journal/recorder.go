package journal

import (
	"context"
	"log/slog"

	"ingest/internal/logging"
	"ingest/internal/plan"
)

// Recorder writes executor job events to a run's journal rows. Journal
// failures are logged and never interrupt rendering.
type Recorder struct {
	Store  *Store
	RunID  string
	Logger *slog.Logger
}

// JobStarted marks the job running.
func (r *Recorder) JobStarted(ctx context.Context, index int, job plan.Job) {
	if err := r.Store.MarkJobRunning(ctx, r.RunID, index); err != nil {
		r.warn(ctx, index, job, err)
	}
}

// JobFinished records the job outcome.
func (r *Recorder) JobFinished(ctx context.Context, index int, job plan.Job, jobErr error) {
	if err := r.Store.FinishJob(context.WithoutCancel(ctx), r.RunID, index, jobErr); err != nil {
		r.warn(ctx, index, job, err)
	}
}

func (r *Recorder) warn(ctx context.Context, index int, job plan.Job, err error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(r.Logger, "journal"))
	logging.WarnWithContext(logger, "journal update failed", "journal_write_failed",
		logging.Int("job", index),
		logging.String("output", job.Output),
		logging.Error(err),
		logging.String(logging.FieldImpact, "run history may be incomplete"),
	)
}
