package render

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"ingest/internal/plan"
)

// Renderer writes one job's frame range. Render blocks until every frame is
// written.
type Renderer interface {
	Render(ctx context.Context, decode plan.Decode, job plan.Job) error
}

// HookRunner runs a per-shot external command.
type HookRunner interface {
	Run(ctx context.Context, command string) error
}

// Recorder observes job progress.
type Recorder interface {
	JobStarted(ctx context.Context, index int, job plan.Job)
	JobFinished(ctx context.Context, index int, job plan.Job, err error)
}

// CommandRunner abstracts process execution for the backends.
type CommandRunner interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// execRunner executes commands using os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%w: %s", err, lastLines(string(output), 5))
	}
	return output, nil
}

func lastLines(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}

func runnerOrDefault(r CommandRunner) CommandRunner {
	if r == nil {
		return execRunner{}
	}
	return r
}
