package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"ingest/internal/journal"
	"ingest/internal/textutil"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded ingest runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(ctx, func(store *journal.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, jsonList(runs))
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						textutil.Title(string(run.Status)),
						run.StartedAt.Local().Format("2006-01-02 15:04:05"),
						formatDuration(run),
						fmt.Sprintf("%d/%d", run.Completed, run.JobCount),
						run.SessionPath,
					})
				}
				fmt.Fprintln(out, renderTable("",
					[]string{"ID", "Status", "Started", "Duration", "Jobs", "Session"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	historyCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the jobs of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(ctx, func(store *journal.Store) error {
				run, err := store.ResolveRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %s not found", args[0])
				}
				jobs, err := store.Jobs(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, struct {
						Run  *journal.Run  `json:"run"`
						Jobs []journal.Job `json:"jobs"`
					}{run, jsonList(jobs)})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:      %s\n", run.ID)
				fmt.Fprintf(out, "Session:  %s\n", run.SessionPath)
				fmt.Fprintf(out, "Status:   %s\n", textutil.Title(string(run.Status)))
				fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Local().Format(time.RFC3339))
				fmt.Fprintf(out, "Duration: %s\n", formatDuration(*run))
				fmt.Fprintf(out, "Jobs:     %d/%d completed, %d command failures\n", run.Completed, run.JobCount, run.HookFailures)
				if run.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:    %s\n", run.ErrorMessage)
				}
				if len(jobs) == 0 {
					return nil
				}
				rows := make([][]string, 0, len(jobs))
				for _, job := range jobs {
					rows = append(rows, []string{
						strconv.Itoa(job.Seq + 1),
						textutil.Title(job.Kind),
						strconv.Itoa(job.Shot),
						formatRange(job.StartFrame, job.EndFrame, job.Increment),
						textutil.Title(string(job.Status)),
						job.OutputPath,
					})
				}
				fmt.Fprintln(out, renderTable("",
					[]string{"#", "Kind", "Shot", "Range", "Status", "Output"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func withJournal(ctx *commandContext, fn func(*journal.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		return errors.New("run journal is disabled (journal.enabled = false)")
	}
	store, err := journal.Open(cfg)
	if err != nil {
		return fmt.Errorf("open journal %s: %w", cfg.JournalPath(), err)
	}
	defer store.Close()
	return fn(store)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(run journal.Run) string {
	if run.FinishedAt == nil {
		return "-"
	}
	return run.Duration().Round(time.Second).String()
}
