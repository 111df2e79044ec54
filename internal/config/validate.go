package config

import (
	"errors"
	"fmt"
	"strings"

	"ingest/internal/timecode"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateEDL(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateRender() error {
	switch c.Render.Backend {
	case BackendFFmpeg, BackendNuke:
	default:
		return fmt.Errorf("render.backend must be %q or %q, got %q", BackendFFmpeg, BackendNuke, c.Render.Backend)
	}
	if strings.ContainsAny(c.Render.PrimaryExtension, `/\ `) {
		return fmt.Errorf("render.primary_extension %q must be a bare extension", c.Render.PrimaryExtension)
	}
	return nil
}

func (c *Config) validateEDL() error {
	if _, err := timecode.ParseRate(c.EDL.FrameRate); err != nil {
		return fmt.Errorf("edl.frame_rate: %w", err)
	}
	if c.EDL.ShotMultiplier <= 0 {
		return errors.New("edl.shot_multiplier must be positive")
	}
	return nil
}
