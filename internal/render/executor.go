package render

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ingest/internal/logging"
	"ingest/internal/plan"
	"ingest/internal/services"
)

// Summary reports what an execution did.
type Summary struct {
	Hooks        int           `json:"hooks"`
	HookFailures int           `json:"hook_failures"`
	Jobs         int           `json:"jobs"`
	Completed    int           `json:"completed"`
	Frames       int           `json:"frames"`
	Duration     time.Duration `json:"duration"`
}

// Executor runs plans sequentially.
type Executor struct {
	Renderer Renderer
	Hooks    HookRunner
	Recorder Recorder
	Logger   *slog.Logger
}

// Execute runs every hook, then every job in order. Hook exit status is
// logged and otherwise ignored. The first job failure aborts the rest and is
// returned wrapped with services.ErrExternalTool.
func (e *Executor) Execute(ctx context.Context, p *plan.Plan) (Summary, error) {
	started := time.Now()
	summary := Summary{Jobs: len(p.Jobs)}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(e.Logger, "render"))
	if e.Renderer == nil {
		return summary, services.Wrap(services.ErrConfiguration, "render", "execute", "no renderer configured", nil)
	}

	for _, hook := range p.Hooks {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(started)
			return summary, err
		}
		if e.Hooks == nil {
			break
		}
		summary.Hooks++
		hookCtx := services.WithShot(services.WithFootage(services.WithStage(ctx, "hook"), hook.Footage), hook.Shot)
		if err := e.Hooks.Run(hookCtx, hook.Command); err != nil {
			summary.HookFailures++
			logging.WarnWithContext(logging.WithContext(hookCtx, logger), "shot command failed", "hook_failed",
				logging.String("command", hook.Command),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the command template in the session options"),
			)
			continue
		}
		logging.WithContext(hookCtx, logger).Debug("shot command finished", logging.String("command", hook.Command))
	}

	for i, job := range p.Jobs {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(started)
			return summary, fmt.Errorf("execution stopped before job %d: %w", i, err)
		}
		decode, ok := p.DecodeFor(job.Footage)
		if !ok {
			decode = plan.Decode{Path: job.Footage}
		}
		jobCtx := services.WithShot(services.WithFootage(services.WithStage(ctx, "render"), job.Footage), job.Shot)
		jobLogger := logging.WithContext(jobCtx, logger)
		jobLogger.Info("rendering",
			logging.String("kind", string(job.Kind)),
			logging.String("output", job.Output),
			logging.Int("start", job.Start),
			logging.Int("end", job.End),
			logging.Int("increment", job.Increment),
		)

		if e.Recorder != nil {
			e.Recorder.JobStarted(jobCtx, i, job)
		}
		jobStarted := time.Now()
		err := e.Renderer.Render(jobCtx, decode, job)
		if e.Recorder != nil {
			e.Recorder.JobFinished(jobCtx, i, job, err)
		}
		if err != nil {
			summary.Duration = time.Since(started)
			logging.ErrorWithContext(jobLogger, "render failed", "render_failed",
				logging.Int("job", i),
				logging.String("output", job.Output),
				logging.Error(err),
				logging.String(logging.FieldImpact, "remaining jobs were not rendered"),
			)
			return summary, services.Wrap(services.ErrExternalTool, "render", "job",
				fmt.Sprintf("job %d (%s shot %d, %s)", i, job.Footage, job.Shot, job.Output), err)
		}
		summary.Completed++
		summary.Frames += job.Range().Frames()
		jobLogger.Debug("render finished", logging.Duration("elapsed", time.Since(jobStarted)))
	}

	summary.Duration = time.Since(started)
	logger.Info("execution finished",
		logging.Int("jobs", summary.Completed),
		logging.Int("frames", summary.Frames),
		logging.Int("hook_failures", summary.HookFailures),
		logging.Duration("elapsed", summary.Duration),
	)
	return summary, nil
}
