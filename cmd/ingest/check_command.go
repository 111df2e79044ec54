package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ingest/internal/deps"
	"ingest/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [session.toml]",
		Short: "Check external tools and directories",
		Long: "Report whether the render tools are installed and the state, log and script\n" +
			"directories are usable. With a session file, its output directories are\n" +
			"checked as well.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var outputDirs []string
			if len(args) == 1 {
				_, _, loaded, err := ctx.loadSession(cmd, args[0])
				if err != nil {
					return err
				}
				p, err := loaded.Plan(cfg, nil)
				if err != nil {
					return err
				}
				outputDirs = p.OutputDirs()
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failures := 0

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			statuses := preflight.CheckSystemDeps(cfg)
			for _, status := range statuses {
				message := status.Path
				if !status.Available {
					message = status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, checkKind(status.Available, status.Optional), message, colorize))
			}
			failures += len(deps.Missing(statuses))

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Directories", colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.RunAll(cfg, outputDirs)
			for _, result := range results {
				fmt.Fprintln(out, renderStatusLine(result.Name, checkKind(result.Passed, false), result.Detail, colorize))
			}
			failures += len(preflight.Failed(results))

			fmt.Fprintln(out)
			fmt.Fprintf(out, "Backend: %s, journal enabled: %s\n", cfg.Render.Backend, yesNo(cfg.Journal.Enabled))
			if failures > 0 {
				return fmt.Errorf("%d check(s) failed", failures)
			}
			return nil
		},
	}
}
