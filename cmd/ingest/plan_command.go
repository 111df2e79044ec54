package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ingest/internal/ingestrun"
	"ingest/internal/plan"
	"ingest/internal/render"
	"ingest/internal/session"
	"ingest/internal/textutil"
)

type planOutput struct {
	Session   string            `json:"session"`
	Readiness session.Readiness `json:"readiness"`
	Frames    int               `json:"frames"`
	Plan      *plan.Plan        `json:"plan"`
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var scriptPath string
	var only []string

	cmd := &cobra.Command{
		Use:   "plan <session.toml>",
		Short: "Show the render jobs a session would run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, loaded, err := ctx.loadSession(cmd, args[0])
			if err != nil {
				return err
			}
			p, err := loaded.Plan(cfg, only)
			if err != nil {
				return err
			}

			if scriptPath != "" {
				if err := writeNukeScript(scriptPath, p); err != nil {
					return err
				}
			}

			if jsonOutput {
				return writeJSON(cmd, planOutput{
					Session:   loaded.Path,
					Readiness: loaded.Readiness(),
					Frames:    p.Frames(),
					Plan:      p,
				})
			}
			printPlan(cmd.OutOrStdout(), loaded, p)
			if scriptPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote Nuke script to %s\n", scriptPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&scriptPath, "script", "", "Also write the plan as a Nuke Python script")
	cmd.Flags().StringSliceVar(&only, "only", nil, "Restrict the plan to these footage paths")
	return cmd
}

func writeNukeScript(path string, p *plan.Plan) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create script directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create script: %w", err)
	}
	if err := render.WriteScript(f, p); err != nil {
		f.Close()
		return fmt.Errorf("write script: %w", err)
	}
	return f.Close()
}

func printPlan(out io.Writer, loaded *ingestrun.Loaded, p *plan.Plan) {
	colorize := shouldColorize(out)
	readiness := loaded.Readiness()
	if readiness.Ready {
		fmt.Fprintln(out, renderStatusLine("Session", statusOK, loaded.Path, colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Session", statusWarn, readiness.Help, colorize))
	}

	if len(p.Footage) > 0 {
		rows := make([][]string, 0, len(p.Footage))
		for _, fp := range p.Footage {
			item, _ := loaded.Session.Lookup(fp.Decode.Path)
			rows = append(rows, []string{
				fp.Decode.Path,
				fmt.Sprintf("%d-%d", fp.Decode.Clip.First, fp.Decode.Clip.Last),
				strconv.Itoa(item.FrameOffset),
				fp.Template,
				strconv.Itoa(len(loaded.Session.Shots(fp.Decode.Path))),
			})
		}
		fmt.Fprintln(out, renderTable("Footage",
			[]string{"Path", "Clip", "Offset", "Output", "Shots"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignRight},
		))
	}

	if len(p.Jobs) > 0 {
		rows := make([][]string, 0, len(p.Jobs))
		for i, job := range p.Jobs {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				textutil.Title(string(job.Kind)),
				strconv.Itoa(job.Shot),
				formatRange(job.Start, job.End, job.Increment),
				strconv.Itoa(job.Range().Frames()),
				job.Output,
			})
		}
		fmt.Fprintln(out, renderTable("Jobs",
			[]string{"#", "Kind", "Shot", "Range", "Frames", "Output"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft},
		))
	}

	if len(p.Hooks) > 0 {
		rows := make([][]string, 0, len(p.Hooks))
		for _, hook := range p.Hooks {
			rows = append(rows, []string{filepath.Base(hook.Footage), strconv.Itoa(hook.Shot), hook.Command})
		}
		fmt.Fprintln(out, renderTable("Commands", []string{"Footage", "Shot", "Command"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
	}

	for _, skipped := range p.Skipped {
		label := filepath.Base(skipped.Footage)
		if skipped.Shot != 0 {
			label = fmt.Sprintf("%s shot %d", label, skipped.Shot)
		}
		fmt.Fprintln(out, renderStatusLine("Skipped", statusWarn, label+": "+skipped.Reason, colorize))
	}

	fmt.Fprintf(out, "%d jobs, %d frames, %d commands\n", len(p.Jobs), p.Frames(), len(p.Hooks))
}

func formatRange(start, end, increment int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d-%d", start, end)
	if increment > 1 {
		fmt.Fprintf(&b, " x%d", increment)
	}
	return b.String()
}
