package preflight

import (
	"slices"

	"ingest/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks the state directories and every output directory.
func RunAll(cfg *config.Config, outputDirs []string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Render.ScriptDir != "" {
		results = append(results, CheckDirectoryAccess("Script directory", cfg.Render.ScriptDir))
	}

	dirs := slices.Clone(outputDirs)
	slices.Sort(dirs)
	for _, dir := range slices.Compact(dirs) {
		if dir == "" {
			continue
		}
		results = append(results, CheckCreatable("Output directory", dir))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
