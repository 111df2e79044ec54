package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ingest/internal/options"
)

func newFieldsCommand(ctx *commandContext) *cobra.Command {
	var mode string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "fields <session.toml>",
		Short: "Show which session inputs are editable",
		Long: "Project a session's options onto the enabled state of each input. The\n" +
			"import mode defaults to edl when the session names an EDL, manual otherwise.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, loaded, err := ctx.loadSession(cmd, args[0])
			if err != nil {
				return err
			}

			panel := options.PanelState{Selected: len(loaded.Selection())}
			switch strings.ToLower(strings.TrimSpace(mode)) {
			case "":
				panel.Mode = options.ImportManual
				if loaded.File.EDL != nil {
					panel.Mode = options.ImportEDL
				}
			case string(options.ImportManual):
				panel.Mode = options.ImportManual
			case string(options.ImportEDL):
				panel.Mode = options.ImportEDL
			default:
				return fmt.Errorf("unknown import mode %q (want manual or edl)", mode)
			}
			footageDir := cfg.EDL.FootageDir
			if loaded.File.EDL != nil && loaded.File.EDL.FootageDir != "" {
				footageDir = loaded.File.Resolve(loaded.File.EDL.FootageDir)
			}
			if footageDir != "" {
				_, statErr := os.Stat(footageDir)
				panel.FootageDirExists = statErr == nil
			}

			state := options.Fields(loaded.Session.Options(), panel)
			if jsonOutput {
				return writeJSON(cmd, struct {
					Mode   options.ImportMode `json:"mode"`
					Fields options.FieldState `json:"fields"`
				}{panel.Mode, state})
			}

			out := cmd.OutOrStdout()
			fields := []struct {
				label string
				value bool
			}{
				{"Downscale factor", state.DownscaleFactor},
				{"Proxy format", state.ProxyFormat},
				{"Proxy scale", state.ProxyScale},
				{"Proxy subdir toggle", state.ProxySubdirToggle},
				{"Proxy subdir", state.ProxySubdir},
				{"Proxy suffix toggle", state.ProxySuffixToggle},
				{"Proxy suffix", state.ProxySuffix},
				{"Footage dir visible", state.FootageDirVisible},
				{"EDL import visible", state.EDLImportVisible},
				{"EDL import enabled", state.EDLImportEnabled},
				{"Frame rate visible", state.FrameRateVisible},
				{"Add footage visible", state.FootageAddVisible},
				{"Remove footage", state.RemoveFootage},
				{"Add shot", state.AddShot},
			}
			rows := make([][]string, 0, len(fields))
			for _, f := range fields {
				rows = append(rows, []string{f.label, yesNo(f.value)})
			}
			fmt.Fprintf(out, "Import mode: %s\n", panel.Mode)
			fmt.Fprintln(out, renderTable("", []string{"Field", "Enabled"}, rows, nil))

			var shotRows [][]string
			for _, item := range loaded.Session.Footage() {
				for _, def := range loaded.Session.Shots(item.Path) {
					shotRows = append(shotRows, []string{
						filepath.Base(item.Path),
						strconv.Itoa(def.Number),
						yesNo(options.HandleLengthEnabled(def)),
					})
				}
			}
			if len(shotRows) > 0 {
				fmt.Fprintln(out, renderTable("", []string{"Footage", "Shot", "Handle length editable"}, shotRows, []columnAlignment{alignLeft, alignRight, alignLeft}))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "Import mode: manual or edl")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
