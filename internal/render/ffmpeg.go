package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"ingest/internal/logging"
	"ingest/internal/plan"
	"ingest/internal/services"
)

// FFmpeg renders image sequences with ffmpeg.
type FFmpeg struct {
	Binary string
	// EXRCompression is passed to the exr encoder (none, rle, zip1, zip16).
	EXRCompression string
	Runner         CommandRunner
	Logger         *slog.Logger
}

// Render creates the output directory and runs ffmpeg for the job.
func (f *FFmpeg) Render(ctx context.Context, decode plan.Decode, job plan.Job) error {
	if err := os.MkdirAll(job.OutputDir(), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "render", "create output dir", job.OutputDir(), err)
	}
	if decode.Colorspace != "" {
		logging.WithContext(ctx, logging.NewComponentLogger(f.Logger, "ffmpeg")).Debug(
			"colorspace override ignored by ffmpeg backend",
			logging.String("colorspace", decode.Colorspace),
		)
	}
	binary := strings.TrimSpace(f.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if _, err := runnerOrDefault(f.Runner).Run(ctx, binary, f.Args(decode, job)); err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "render", job.Output, err)
	}
	return nil
}

// Args builds the ffmpeg argument list for a job, without the binary.
func (f *FFmpeg) Args(decode plan.Decode, job plan.Job) []string {
	args := make([]string, 0, 48)

	// --- Preamble ---
	args = append(args, "-hide_banner", "-nostdin", "-y", "-loglevel", "error")

	// --- Input ---
	args = append(args, "-i", decode.Path)

	// --- Frame selection and scaling ---
	args = append(args, "-vf", strings.Join(filterChain(decode, job), ","))
	args = append(args, "-fps_mode", "passthrough")

	// --- Metadata ---
	if job.Metadata == plan.MetadataAllExceptInput {
		args = append(args, "-map_metadata", "0")
	} else {
		args = append(args, "-map_metadata", "-1")
	}
	for _, stage := range job.Chain {
		if stage.Kind != plan.StageMetadata {
			continue
		}
		for _, entry := range stage.Metadata {
			args = append(args, "-metadata", "ingest/"+entry.Key+"="+entry.Value)
		}
	}

	// --- Codec ---
	args = append(args, codecArgs(f.EXRCompression, job)...)

	// --- Output ---
	output, sequence := SequencePattern(job.Output)
	args = append(args, "-f", "image2")
	if sequence {
		args = append(args, "-frame_pts", "1", "-start_number", strconv.Itoa(job.Start))
	} else {
		args = append(args, "-update", "1")
	}
	args = append(args, output)
	return args
}

// filterChain numbers frames by their source frame so that -frame_pts writes
// each frame under its own number, selects the job range, then scales.
func filterChain(decode plan.Decode, job plan.Job) []string {
	increment := job.Increment
	if increment < 1 {
		increment = 1
	}
	filters := []string{
		"settb=1",
		fmt.Sprintf("setpts=N+%d", decode.Clip.First),
		fmt.Sprintf("select='between(pts,%d,%d)*not(mod(pts-%d,%d))'", job.Start, job.End, job.Start, increment),
	}
	for _, stage := range job.Chain {
		if stage.Kind == plan.StageScale {
			factor := strconv.FormatFloat(stage.Scale, 'f', -1, 64)
			filters = append(filters, fmt.Sprintf("scale=trunc(iw*%s/2)*2:trunc(ih*%s/2)*2", factor, factor))
		}
	}
	return filters
}

func codecArgs(compression string, job plan.Job) []string {
	switch strings.ToLower(job.Format) {
	case "exr":
		args := []string{"-c:v", "exr"}
		if c := strings.TrimSpace(compression); c != "" {
			args = append(args, "-compression", c)
		}
		if job.HalfFloat {
			args = append(args, "-format", "half")
		} else {
			args = append(args, "-format", "float")
		}
		return append(args, "-pix_fmt", "gbrpf32le")
	case "jpeg", "jpg":
		return []string{"-c:v", "mjpeg", "-q:v", "2", "-pix_fmt", "yuvj444p"}
	case "png":
		return []string{"-c:v", "png", "-pix_fmt", "rgb24"}
	case "targa", "tga":
		return []string{"-c:v", "targa", "-pix_fmt", "rgb24"}
	case "tiff", "tif":
		return []string{"-c:v", "tiff", "-pix_fmt", "rgb24"}
	case "dpx":
		return []string{"-c:v", "dpx"}
	}
	return nil
}
