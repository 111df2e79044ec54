package config

const (
	defaultStateDir         = "~/.local/share/ingest"
	defaultLogDir           = "~/.local/share/ingest/logs"
	defaultBackend          = BackendFFmpeg
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultNukeBinary       = "Nuke"
	defaultPrimaryExtension = "exr"
	defaultEXRCompression   = "zip1"
	defaultColorspace       = "DRAGONcolor2"
	defaultShell            = "/bin/sh"
	defaultEDLFrameRate     = "24"
	defaultShotMultiplier   = 100
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Render backend identifiers.
const (
	BackendFFmpeg = "ffmpeg"
	BackendNuke   = "nuke"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Render: Render{
			Backend:          defaultBackend,
			FFmpegBinary:     defaultFFmpegBinary,
			FFprobeBinary:    defaultFFprobeBinary,
			NukeBinary:       defaultNukeBinary,
			PrimaryExtension: defaultPrimaryExtension,
			EXRCompression:   defaultEXRCompression,
			Colorspace:       defaultColorspace,
			Shell:            defaultShell,
		},
		EDL: EDL{
			FrameRate:      defaultEDLFrameRate,
			ShotMultiplier: defaultShotMultiplier,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
