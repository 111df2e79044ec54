package journal

import "time"

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

// JobStatus is the lifecycle state of a journaled job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Run is one execution of a session.
type Run struct {
	ID           string     `json:"id"`
	SessionPath  string     `json:"session_path,omitempty"`
	Status       RunStatus  `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	JobCount     int        `json:"job_count"`
	Completed    int        `json:"completed"`
	HookFailures int        `json:"hook_failures"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// Duration returns how long the run took, or has taken so far.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Job is one render job of a run.
type Job struct {
	RunID        string     `json:"run_id"`
	Seq          int        `json:"seq"`
	Kind         string     `json:"kind"`
	Footage      string     `json:"footage"`
	Shot         int        `json:"shot"`
	OutputPath   string     `json:"output_path"`
	StartFrame   int        `json:"start_frame"`
	EndFrame     int        `json:"end_frame"`
	Increment    int        `json:"increment"`
	Status       JobStatus  `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}
