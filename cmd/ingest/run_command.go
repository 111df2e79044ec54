package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ingest/internal/ingestrun"
	"ingest/internal/services"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var only []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run <session.toml>",
		Short: "Render every shot of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, loaded, err := ctx.loadSession(cmd, args[0])
			if err != nil {
				return err
			}
			if readiness := loaded.Readiness(); !readiness.Ready {
				return services.Wrap(services.ErrValidation, "cli", "run", readiness.Help, nil)
			}
			p, err := loaded.Plan(cfg, only)
			if err != nil {
				return err
			}
			if len(p.Jobs) == 0 && len(p.Hooks) == 0 {
				return errors.New("nothing to render: no footage matched a mapping rule")
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, runErr := ingestrun.Run(runCtx, p, ingestrun.Options{
				Config:      cfg,
				Logger:      logger,
				SessionPath: loaded.Path,
			})
			if jsonOutput {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
				return runErr
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			summary := result.Summary
			if result.RunID != "" {
				fmt.Fprintf(out, "Run %s\n", result.RunID)
			}
			kind := statusOK
			if runErr != nil {
				kind = statusError
			}
			fmt.Fprintln(out, renderStatusLine("Jobs", kind, fmt.Sprintf("%d/%d completed, %d frames", summary.Completed, summary.Jobs, summary.Frames), colorize))
			hookKind := statusOK
			if summary.HookFailures > 0 {
				hookKind = statusWarn
			}
			fmt.Fprintln(out, renderStatusLine("Commands", hookKind, fmt.Sprintf("%d run, %d failed", summary.Hooks, summary.HookFailures), colorize))
			fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, summary.Duration.Round(time.Millisecond).String(), colorize))
			return runErr
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil, "Render only these footage paths")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run summary as JSON")
	return cmd
}
