package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"ingest/internal/mapping"
)

func newMappingCommand(ctx *commandContext) *cobra.Command {
	mappingCmd := &cobra.Command{
		Use:   "mapping",
		Short: "Inspect footage-to-output mapping rules",
	}
	mappingCmd.AddCommand(newMappingTestCommand(ctx))
	mappingCmd.AddCommand(newMappingImportCommand())
	return mappingCmd
}

type mappingResult struct {
	Path    string         `json:"path"`
	Matched bool           `json:"matched"`
	Match   *mapping.Match `json:"match,omitempty"`
	// Output is the matched output with the primary extension applied.
	Output string `json:"output,omitempty"`
}

func newMappingTestCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "test <session.toml> <footage-path>...",
		Short: "Show which rule of a session maps each path",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, loaded, err := ctx.loadSession(cmd, args[0])
			if err != nil {
				return err
			}
			mapper, err := mapping.Compile(loaded.Session.Mappings())
			if err != nil {
				return err
			}

			results := make([]mappingResult, 0, len(args)-1)
			for _, path := range args[1:] {
				path = loaded.File.Resolve(path)
				result := mappingResult{Path: path}
				if match, ok := mapper.Captures(path); ok {
					result.Matched = true
					result.Match = &match
					result.Output = mapping.NormalizeOutput(match.Output, cfg.Render.PrimaryExtension)
				}
				results = append(results, result)
			}
			if jsonOutput {
				return writeJSON(cmd, results)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, result := range results {
				if !result.Matched {
					fmt.Fprintln(out, renderStatusLine("No match", statusWarn, result.Path, colorize))
					continue
				}
				fmt.Fprintln(out, renderStatusLine("Rule "+strconv.Itoa(result.Match.Index+1), statusOK, result.Path+" -> "+result.Output, colorize))
				for _, v := range result.Match.Variables {
					fmt.Fprintf(out, "%s  %s = %s\n", statusIndent, v.Token, v.Value)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newMappingImportCommand() *cobra.Command {
	var asTOML bool

	cmd := &cobra.Command{
		Use:         "import <mappings.csv>",
		Short:       "Read a mapping CSV and print its rules",
		Long:        "Read a two-column mapping CSV (input, output) quoted with '|'. Rows\nrepeating an earlier input are dropped. With --toml the rules are printed as\n[[mapping]] tables ready to paste into a session file.",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open mapping csv: %w", err)
			}
			defer f.Close()

			var rules []mapping.Rule
			if _, err := mapping.ReadCSV(f, func(r mapping.Rule) { rules = append(rules, r) }); err != nil {
				return fmt.Errorf("invalid CSV file %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if asTOML {
				data, err := toml.Marshal(struct {
					Mapping []mapping.Rule `toml:"mapping"`
				}{rules})
				if err != nil {
					return fmt.Errorf("encode rules: %w", err)
				}
				_, err = out.Write(data)
				return err
			}

			rows := make([][]string, 0, len(rules))
			for i, rule := range rules {
				rows = append(rows, []string{strconv.Itoa(i + 1), rule.Input, rule.Output})
			}
			fmt.Fprintln(out, renderTable("", []string{"#", "Input", "Output"}, rows, []columnAlignment{alignRight}))
			fmt.Fprintf(out, "%d %s\n", len(rules), pluralize(len(rules), "rule", "rules"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asTOML, "toml", false, "Print the rules as session file TOML")
	return cmd
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
