package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ingest/internal/logging"
	"ingest/internal/plan"
	"ingest/internal/services"
	"ingest/internal/shots"
	"ingest/internal/textutil"
)

// Nuke renders by generating a Python script and running `<binary> -t`.
type Nuke struct {
	Binary string
	// ScriptDir keeps generated scripts; empty uses a temporary directory
	// removed after each render.
	ScriptDir string
	Runner    CommandRunner
	Logger    *slog.Logger
}

// Render writes a script for the job and executes it.
func (n *Nuke) Render(ctx context.Context, decode plan.Decode, job plan.Job) error {
	dir := strings.TrimSpace(n.ScriptDir)
	if dir == "" {
		tmp, err := os.MkdirTemp("", "ingest-nuke-")
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "nuke", "script dir", "", err)
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "nuke", "script dir", dir, err)
	}

	name := fmt.Sprintf("%s_shot%d_%s.py", textutil.SanitizeFileName(filepath.Base(decode.Path)), job.Shot, job.Kind)
	scriptPath := filepath.Join(dir, name)
	file, err := os.Create(scriptPath)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "nuke", "write script", scriptPath, err)
	}
	writeErr := writeScript(file, []footageJobs{{decode: decode, jobs: []plan.Job{job}}})
	if closeErr := file.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return services.Wrap(services.ErrConfiguration, "nuke", "write script", scriptPath, writeErr)
	}

	logging.WithContext(ctx, logging.NewComponentLogger(n.Logger, "nuke")).Debug("running nuke script",
		logging.String("script", scriptPath))

	binary := strings.TrimSpace(n.Binary)
	if binary == "" {
		binary = "Nuke"
	}
	if _, err := runnerOrDefault(n.Runner).Run(ctx, binary, []string{"-t", scriptPath}); err != nil {
		return services.Wrap(services.ErrExternalTool, "nuke", "render", job.Output, err)
	}
	return nil
}

// WriteScript writes one script that renders the whole plan in job order.
func WriteScript(w io.Writer, p *plan.Plan) error {
	var groups []footageJobs
	for _, job := range p.Jobs {
		if n := len(groups); n > 0 && groups[n-1].decode.Path == job.Footage {
			groups[n-1].jobs = append(groups[n-1].jobs, job)
			continue
		}
		decode, ok := p.DecodeFor(job.Footage)
		if !ok {
			decode = plan.Decode{Path: job.Footage}
		}
		groups = append(groups, footageJobs{decode: decode, jobs: []plan.Job{job}})
	}
	return writeScript(w, groups)
}

type footageJobs struct {
	decode plan.Decode
	jobs   []plan.Job
}

func writeScript(w io.Writer, groups []footageJobs) error {
	var b strings.Builder
	b.WriteString("# -*- coding: utf-8 -*-\nimport nuke\n")
	for g, group := range groups {
		read := fmt.Sprintf("read%d", g)
		fmt.Fprintf(&b, "\n%s = nuke.nodes.Read()\n", read)
		fmt.Fprintf(&b, "%s['file'].fromUserText(%s)\n", read, pyString(group.decode.Path))
		if group.decode.Clip != (shots.ClipBounds{}) {
			fmt.Fprintf(&b, "%s['first'].setValue(%d)\n%s['last'].setValue(%d)\n",
				read, group.decode.Clip.First, read, group.decode.Clip.Last)
		}
		if cs := group.decode.Colorspace; cs != "" {
			fmt.Fprintf(&b, "%s['r3d_colorspace'].setValue(%s)\n", read, pyString(cs))
		}

		// One ModifyMetaData node per distinct metadata script.
		metaNodes := map[string]string{}
		for j, job := range group.jobs {
			script := ""
			for _, stage := range job.Chain {
				if stage.Kind == plan.StageMetadata {
					script = stage.Script
				}
			}
			meta, ok := metaNodes[script]
			if !ok {
				meta = fmt.Sprintf("meta%d_%d", g, len(metaNodes))
				metaNodes[script] = meta
				fmt.Fprintf(&b, "%s = nuke.nodes.ModifyMetaData()\n", meta)
				fmt.Fprintf(&b, "%s['metadata'].fromScript(%s)\n", meta, pyString(script))
				fmt.Fprintf(&b, "%s.setInput(0, %s)\n", meta, read)
			}

			last := meta
			for s, stage := range job.Chain {
				if stage.Kind != plan.StageScale {
					continue
				}
				reformat := fmt.Sprintf("reformat%d_%d_%d", g, j, s)
				fmt.Fprintf(&b, "%s = nuke.nodes.Reformat()\n", reformat)
				fmt.Fprintf(&b, "%s['type'].setValue(2)\n", reformat)
				fmt.Fprintf(&b, "%s['scale'].setValue(%s)\n", reformat, strconv.FormatFloat(stage.Scale, 'f', -1, 64))
				fmt.Fprintf(&b, "%s.setInput(0, %s)\n", reformat, last)
				last = reformat
			}

			write := fmt.Sprintf("write%d_%d", g, j)
			fmt.Fprintf(&b, "%s = nuke.nodes.Write()\n", write)
			fmt.Fprintf(&b, "%s['file'].setValue(%s)\n", write, pyString(NukePattern(job.Output)))
			fmt.Fprintf(&b, "%s['file_type'].setValue(%s)\n", write, pyString(job.Format))
			if job.Metadata == plan.MetadataAllExceptInput {
				fmt.Fprintf(&b, "%s['metadata'].setValue('all metadata except input/*')\n", write)
			}
			if job.HalfFloat {
				fmt.Fprintf(&b, "%s['datatype'].setValue('16 bit half')\n", write)
			}
			fmt.Fprintf(&b, "%s['create_directories'].setValue(True)\n", write)
			fmt.Fprintf(&b, "%s.setInput(0, %s)\n", write, last)
			fmt.Fprintf(&b, "nuke.execute(%s, %d, %d, %d)\n", write, job.Start, job.End, job.Increment)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func pyString(s string) string {
	return strconv.Quote(s)
}
