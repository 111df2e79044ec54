package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRender(); err != nil {
		return err
	}
	if err := c.normalizeEDL(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRender() error {
	c.Render.Backend = strings.ToLower(strings.TrimSpace(c.Render.Backend))
	if c.Render.Backend == "" {
		c.Render.Backend = defaultBackend
	}
	c.Render.FFmpegBinary = strings.TrimSpace(c.Render.FFmpegBinary)
	if value, ok := os.LookupEnv("INGEST_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Render.FFmpegBinary = strings.TrimSpace(value)
	}
	if c.Render.FFmpegBinary == "" {
		c.Render.FFmpegBinary = defaultFFmpegBinary
	}
	c.Render.FFprobeBinary = strings.TrimSpace(c.Render.FFprobeBinary)
	if c.Render.FFprobeBinary == "" {
		c.Render.FFprobeBinary = defaultFFprobeBinary
	}
	c.Render.NukeBinary = strings.TrimSpace(c.Render.NukeBinary)
	if value, ok := os.LookupEnv("INGEST_NUKE"); ok && strings.TrimSpace(value) != "" {
		c.Render.NukeBinary = strings.TrimSpace(value)
	}
	if c.Render.NukeBinary == "" {
		c.Render.NukeBinary = defaultNukeBinary
	}
	c.Render.PrimaryExtension = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Render.PrimaryExtension)), ".")
	if c.Render.PrimaryExtension == "" {
		c.Render.PrimaryExtension = defaultPrimaryExtension
	}
	c.Render.EXRCompression = strings.ToLower(strings.TrimSpace(c.Render.EXRCompression))
	if c.Render.EXRCompression == "" {
		c.Render.EXRCompression = defaultEXRCompression
	}
	c.Render.Colorspace = strings.TrimSpace(c.Render.Colorspace)
	if c.Render.Colorspace == "" {
		c.Render.Colorspace = defaultColorspace
	}
	c.Render.Shell = strings.TrimSpace(c.Render.Shell)
	if c.Render.Shell == "" {
		c.Render.Shell = defaultShell
	}
	if strings.TrimSpace(c.Render.ScriptDir) != "" {
		var err error
		if c.Render.ScriptDir, err = expandPath(c.Render.ScriptDir); err != nil {
			return fmt.Errorf("render.script_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeEDL() error {
	c.EDL.FrameRate = strings.TrimSpace(c.EDL.FrameRate)
	if c.EDL.FrameRate == "" {
		c.EDL.FrameRate = defaultEDLFrameRate
	}
	if strings.TrimSpace(c.EDL.FootageDir) != "" {
		var err error
		if c.EDL.FootageDir, err = expandPath(c.EDL.FootageDir); err != nil {
			return fmt.Errorf("edl.footage_dir: %w", err)
		}
	}
	if c.EDL.ShotMultiplier <= 0 {
		c.EDL.ShotMultiplier = defaultShotMultiplier
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
