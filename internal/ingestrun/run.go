package ingestrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"ingest/internal/config"
	"ingest/internal/deps"
	"ingest/internal/journal"
	"ingest/internal/logging"
	"ingest/internal/plan"
	"ingest/internal/preflight"
	"ingest/internal/render"
	"ingest/internal/services"
)

// ErrRunInProgress is returned when another ingest run holds the lock.
var ErrRunInProgress = errors.New("another ingest run is already in progress")

// Options configures a run.
type Options struct {
	Config      *config.Config
	Logger      *slog.Logger
	SessionPath string
	// Renderer and Hooks override the backends built from the config.
	Renderer render.Renderer
	Hooks    render.HookRunner
}

// Result reports a finished run.
type Result struct {
	RunID   string
	Summary render.Summary
}

// NewRenderer builds the configured render backend.
func NewRenderer(cfg *config.Config, logger *slog.Logger) (render.Renderer, error) {
	switch cfg.Render.Backend {
	case config.BackendFFmpeg, "":
		return &render.FFmpeg{Binary: cfg.Render.FFmpegBinary, EXRCompression: cfg.Render.EXRCompression, Logger: logger}, nil
	case config.BackendNuke:
		return &render.Nuke{Binary: cfg.Render.NukeBinary, ScriptDir: cfg.Render.ScriptDir, Logger: logger}, nil
	}
	return nil, services.Wrap(services.ErrConfiguration, "run", "renderer", fmt.Sprintf("unknown backend %q", cfg.Render.Backend), nil)
}

// Run executes p. Only one run may execute per state directory at a time.
func Run(ctx context.Context, p *plan.Plan, opts Options) (Result, error) {
	cfg := opts.Config
	if cfg == nil || p == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "run", "start", "config and plan are required", nil)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "run", "directories", "", err)
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "run", "lock", cfg.LockPath(), err)
	}
	if !ok {
		return Result{}, fmt.Errorf("%w (lock %s)", ErrRunInProgress, cfg.LockPath())
	}
	defer func() { _ = lock.Unlock() }()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "ingestrun"))
	result := Result{RunID: runID}

	logDependencySnapshot(logger, cfg)
	if failed := preflight.Failed(preflight.RunAll(cfg, p.OutputDirs())); len(failed) > 0 {
		details := make([]string, 0, len(failed))
		for _, f := range failed {
			details = append(details, f.Name+": "+f.Detail)
		}
		return result, services.Wrap(services.ErrConfiguration, "run", "preflight", strings.Join(details, "; "), nil)
	}

	renderer := opts.Renderer
	if renderer == nil {
		if renderer, err = NewRenderer(cfg, opts.Logger); err != nil {
			return result, err
		}
	}
	hooks := opts.Hooks
	if hooks == nil {
		hooks = render.ShellHookRunner{Shell: cfg.Render.Shell}
	}

	executor := &render.Executor{Renderer: renderer, Hooks: hooks, Logger: opts.Logger}
	var store *journal.Store
	if cfg.Journal.Enabled {
		store, err = journal.Open(cfg)
		if err != nil {
			return result, services.Wrap(services.ErrConfiguration, "run", "journal", cfg.JournalPath(), err)
		}
		defer store.Close()
		if n, err := store.MarkInterrupted(ctx); err == nil && n > 0 {
			logger.Warn("previous runs marked interrupted",
				logging.Int("runs", int(n)),
				logging.String(logging.FieldEventType, "runs_interrupted"),
				logging.String(logging.FieldImpact, "history shows them as failed"),
			)
		}
		if _, err := store.StartRun(ctx, runID, opts.SessionPath, p.Jobs); err != nil {
			return result, services.Wrap(services.ErrConfiguration, "run", "journal", "record run", err)
		}
		executor.Recorder = &journal.Recorder{Store: store, RunID: runID, Logger: opts.Logger}
	}

	logger.Info("ingest run started",
		logging.Int("jobs", len(p.Jobs)),
		logging.Int("hooks", len(p.Hooks)),
		logging.Int("skipped", len(p.Skipped)),
		logging.Int("frames", p.Frames()),
	)
	summary, execErr := executor.Execute(ctx, p)
	result.Summary = summary

	if store != nil {
		outcome := journal.RunOutcome{
			Status:       journal.RunSucceeded,
			Completed:    summary.Completed,
			HookFailures: summary.HookFailures,
			Err:          execErr,
		}
		switch {
		case errors.Is(execErr, context.Canceled):
			outcome.Status = journal.RunCancelled
		case execErr != nil:
			outcome.Status = journal.RunFailed
		}
		if err := store.FinishRun(context.WithoutCancel(ctx), runID, outcome); err != nil {
			logging.WarnWithContext(logger, "journal update failed", "journal_write_failed", logging.Error(err))
		}
	}
	return result, execErr
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	attrs := []any{logging.String(logging.FieldEventType, "dependency_snapshot"), logging.String("backend", cfg.Render.Backend)}
	for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
		key := strings.ToLower(status.Name)
		attrs = append(attrs, logging.Bool(key+"_available", status.Available))
		if status.Available {
			attrs = append(attrs, logging.String(key+"_path", status.Path))
		} else {
			attrs = append(attrs, logging.String(key+"_detail", status.Detail))
		}
	}
	logger.Debug("dependency snapshot", attrs...)
}
