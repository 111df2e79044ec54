package render

import (
	"context"
	"strings"
)

const defaultShell = "/bin/sh"

// ShellHookRunner runs hook commands through `<shell> -c`.
type ShellHookRunner struct {
	Shell  string
	Runner CommandRunner
}

// Run executes command and waits for it to exit.
func (h ShellHookRunner) Run(ctx context.Context, command string) error {
	shell := strings.TrimSpace(h.Shell)
	if shell == "" {
		shell = defaultShell
	}
	_, err := runnerOrDefault(h.Runner).Run(ctx, shell, []string{"-c", command})
	return err
}
