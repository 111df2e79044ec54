package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ingest/internal/plan"
)

const runColumns = "id, session_path, status, started_at, finished_at, job_count, completed_count, hook_failures, error_message"

const jobColumns = "run_id, seq, kind, footage, shot, output_path, start_frame, end_frame, increment, status, error_message, started_at, finished_at"

// StartRun records a new running run and one pending row per job.
func (s *Store) StartRun(ctx context.Context, id, sessionPath string, jobs []plan.Job) (*Run, error) {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, session_path, status, started_at, job_count) VALUES (?, ?, ?, ?, ?)`,
			id, nullableString(sessionPath), RunRunning, formatTime(now), len(jobs),
		); err != nil {
			return err
		}
		for seq, job := range jobs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO jobs (run_id, seq, kind, footage, shot, output_path, start_frame, end_frame, increment, status)
                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id, seq, string(job.Kind), job.Footage, job.Shot, job.Output, job.Start, job.End, job.Increment, JobPending,
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	return s.GetRun(ctx, id)
}

// MarkJobRunning flags a job as started.
func (s *Store) MarkJobRunning(ctx context.Context, runID string, seq int) error {
	if err := s.execWithRetry(ctx,
		`UPDATE jobs SET status = ?, started_at = ? WHERE run_id = ? AND seq = ?`,
		JobRunning, formatTime(time.Now()), runID, seq,
	); err != nil {
		return fmt.Errorf("mark job running: %w", err)
	}
	return nil
}

// FinishJob records a job outcome. A nil jobErr marks success.
func (s *Store) FinishJob(ctx context.Context, runID string, seq int, jobErr error) error {
	status, message := JobSucceeded, ""
	if jobErr != nil {
		status, message = JobFailed, jobErr.Error()
	}
	if err := s.execWithRetry(ctx,
		`UPDATE jobs SET status = ?, error_message = ?, finished_at = ? WHERE run_id = ? AND seq = ?`,
		status, nullableString(message), formatTime(time.Now()), runID, seq,
	); err != nil {
		return fmt.Errorf("finish job: %w", err)
	}
	return nil
}

// RunOutcome summarizes a finished run.
type RunOutcome struct {
	Status       RunStatus
	Completed    int
	HookFailures int
	Err          error
}

// FinishRun closes a run.
func (s *Store) FinishRun(ctx context.Context, runID string, outcome RunOutcome) error {
	message := ""
	if outcome.Err != nil {
		message = outcome.Err.Error()
	}
	if err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, completed_count = ?, hook_failures = ?, error_message = ? WHERE id = ?`,
		outcome.Status, formatTime(time.Now()), outcome.Completed, outcome.HookFailures, nullableString(message), runID,
	); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// GetRun fetches a run by id. It returns nil when the run does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ResolveRun finds a run by its id or a unique id prefix.
func (s *Store) ResolveRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	if run, err := s.GetRun(ctx, idOrPrefix); err != nil || run != nil {
		return run, err
	}
	if idOrPrefix == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+runColumns+` FROM runs WHERE id LIKE ? ESCAPE '\' ORDER BY started_at DESC LIMIT 2`,
		escapeLike(idOrPrefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("resolve run: %w", err)
	}
	defer rows.Close()
	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	}
	return nil, fmt.Errorf("run id prefix %q is ambiguous", idOrPrefix)
}

// ListRuns returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Jobs returns a run's jobs in execution order.
func (s *Store) Jobs(ctx context.Context, runID string) ([]Job, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+jobColumns+` FROM jobs WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

// MarkInterrupted fails runs left in the running state by a crashed process.
func (s *Store) MarkInterrupted(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`UPDATE runs SET status = ?, finished_at = ?, error_message = ? WHERE status = ?`,
			RunFailed, formatTime(time.Now()), "interrupted", RunRunning,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("mark interrupted runs: %w", err)
	}
	return affected, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run         Run
		sessionPath sql.NullString
		status      string
		startedRaw  string
		finishedRaw sql.NullString
		message     sql.NullString
	)
	if err := row.Scan(&run.ID, &sessionPath, &status, &startedRaw, &finishedRaw,
		&run.JobCount, &run.Completed, &run.HookFailures, &message); err != nil {
		return nil, err
	}
	run.SessionPath = sessionPath.String
	run.Status = RunStatus(status)
	run.ErrorMessage = message.String
	if started := parseTime(sql.NullString{String: startedRaw, Valid: true}); started != nil {
		run.StartedAt = *started
	}
	run.FinishedAt = parseTime(finishedRaw)
	return &run, nil
}

func scanJob(row scanner) (Job, error) {
	var (
		job         Job
		status      string
		message     sql.NullString
		startedRaw  sql.NullString
		finishedRaw sql.NullString
	)
	if err := row.Scan(&job.RunID, &job.Seq, &job.Kind, &job.Footage, &job.Shot, &job.OutputPath,
		&job.StartFrame, &job.EndFrame, &job.Increment, &status, &message, &startedRaw, &finishedRaw); err != nil {
		return Job{}, err
	}
	job.Status = JobStatus(status)
	job.ErrorMessage = message.String
	job.StartedAt = parseTime(startedRaw)
	job.FinishedAt = parseTime(finishedRaw)
	return job, nil
}

func escapeLike(value string) string {
	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, value[i])
	}
	return string(out)
}
