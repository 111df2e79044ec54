package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ingest/internal/edl"
	"ingest/internal/media/ffprobe"
	"ingest/internal/session"
)

func newEDLCommand(ctx *commandContext) *cobra.Command {
	var footageDir string
	var frameRate string
	var multiplier int
	var videoOnly bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "edl <file.edl>",
		Short: "Preview the footage and shots an EDL imports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open edl: %w", err)
			}
			list, err := edl.Parse(f)
			f.Close()
			if err != nil {
				return err
			}

			rate := strings.TrimSpace(frameRate)
			if rate == "" {
				rate = cfg.EDL.FrameRate
			}
			dir := strings.TrimSpace(footageDir)
			if dir == "" {
				dir = cfg.EDL.FootageDir
			}
			if multiplier <= 0 {
				multiplier = cfg.EDL.ShotMultiplier
			}

			sess, err := session.New(rate, ffprobe.Prober{Binary: cfg.Render.FFprobeBinary})
			if err != nil {
				return err
			}
			imported, err := edl.Import(cmd.Context(), sess, list, edl.ImportOptions{
				FootageDir:     dir,
				ShotMultiplier: multiplier,
				VideoOnly:      videoOnly,
				Logger:         logger,
			})
			if jsonOutput {
				if werr := writeJSON(cmd, struct {
					Title     string         `json:"title,omitempty"`
					DropFrame bool           `json:"drop_frame"`
					Imported  []edl.Imported `json:"imported"`
				}{list.Title, list.DropFrame, jsonList(imported)}); werr != nil {
					return werr
				}
				return err
			}

			out := cmd.OutOrStdout()
			if list.Title != "" {
				fmt.Fprintf(out, "Title: %s\n", list.Title)
			}
			if len(imported) > 0 {
				rows := make([][]string, 0, len(imported))
				for _, imp := range imported {
					rows = append(rows, []string{
						strconv.Itoa(imp.Event.Number),
						imp.Event.Reel,
						imp.Event.SourceIn + " - " + imp.Event.SourceOut,
						filepath.Base(imp.Footage),
						strconv.Itoa(imp.Shot.Number),
						formatRange(imp.Shot.Start, imp.Shot.End, imp.Shot.Increment),
					})
				}
				fmt.Fprintln(out, renderTable("",
					[]string{"Event", "Reel", "Source", "Footage", "Shot", "Range"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				))
			}
			fmt.Fprintf(out, "%d of %d events imported into %d footage items\n", len(imported), len(list.Events), len(sess.Footage()))
			return err
		},
	}

	cmd.Flags().StringVar(&footageDir, "footage-dir", "", "Directory searched for footage named after each reel")
	cmd.Flags().StringVar(&frameRate, "fps", "", "Frame rate of the EDL timecodes")
	cmd.Flags().IntVar(&multiplier, "multiplier", 0, "Shot number multiplier applied to event numbers")
	cmd.Flags().BoolVar(&videoOnly, "video-only", false, "Skip audio-only events")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
