package deps

import "ingest/internal/config"

// Requirements lists the external binaries needed by the configured render
// backend. The backend not in use is reported as optional.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		return nil
	}
	nuke := cfg.Render.Backend == config.BackendNuke
	return []Requirement{
		{
			Name:        "FFprobe",
			Command:     cfg.Render.FFprobeBinary,
			Description: "Reads clip frame counts and embedded timecode",
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Render.FFmpegBinary,
			Description: "Renders image sequences with the ffmpeg backend",
			Optional:    nuke,
		},
		{
			Name:        "Nuke",
			Command:     cfg.Render.NukeBinary,
			Description: "Executes generated render scripts with the nuke backend",
			Optional:    !nuke,
		},
		{
			Name:        "Shell",
			Command:     cfg.Render.Shell,
			Description: "Runs per-shot commands",
			Optional:    true,
		},
	}
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
