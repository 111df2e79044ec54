package ingestrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"ingest/internal/config"
	"ingest/internal/edl"
	"ingest/internal/media/ffprobe"
	"ingest/internal/plan"
	"ingest/internal/services"
	"ingest/internal/session"
)

// LoadOptions configures session loading.
type LoadOptions struct {
	Config *config.Config
	// Prober overrides the ffprobe prober built from the config.
	Prober session.Prober
	Logger *slog.Logger
}

// Loaded is a session file together with the session built from it.
type Loaded struct {
	Path     string
	File     *session.File
	Session  *session.Session
	Imported []edl.Imported
}

// Load reads the session file at path and builds its session.
func Load(ctx context.Context, path string, opts LoadOptions) (*Loaded, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "load", "session", "config is required", nil)
	}
	file, err := session.Decode(path)
	if err != nil {
		return nil, err
	}
	prober := opts.Prober
	if prober == nil {
		prober = ffprobe.Prober{Binary: cfg.Render.FFprobeBinary}
	}
	rate := cfg.EDL.FrameRate
	if file.EDL != nil && strings.TrimSpace(file.EDL.FrameRate) != "" {
		rate = file.EDL.FrameRate
	}
	sess, err := file.Build(ctx, session.BuildOptions{FrameRate: rate, Prober: prober})
	if err != nil {
		return nil, err
	}

	loaded := &Loaded{Path: path, File: file, Session: sess}
	if file.EDL != nil && strings.TrimSpace(file.EDL.File) != "" {
		imported, err := importEDL(ctx, cfg, file, sess, opts.Logger)
		if err != nil {
			return nil, err
		}
		loaded.Imported = imported
	}
	return loaded, nil
}

func importEDL(ctx context.Context, cfg *config.Config, file *session.File, sess *session.Session, logger *slog.Logger) ([]edl.Imported, error) {
	edlPath := file.Resolve(file.EDL.File)
	f, err := os.Open(edlPath)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "load", "edl", edlPath, err)
	}
	defer f.Close()
	list, err := edl.Parse(f)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "load", "edl", edlPath, err)
	}

	footageDir := file.Resolve(file.EDL.FootageDir)
	if footageDir == "" {
		footageDir = cfg.EDL.FootageDir
	}
	imported, err := edl.Import(ctx, sess, list, edl.ImportOptions{
		Rate:           file.EDL.FrameRate,
		FootageDir:     footageDir,
		ShotMultiplier: cfg.EDL.ShotMultiplier,
		Logger:         logger,
	})
	if err != nil {
		return imported, fmt.Errorf("import %s: %w", edlPath, err)
	}
	return imported, nil
}

// Selection returns the footage selected for ingest.
func (l *Loaded) Selection() []string {
	return l.File.SelectedPaths(l.Session)
}

// Readiness reports whether the loaded session may be ingested.
func (l *Loaded) Readiness() session.Readiness {
	return l.Session.Readiness(l.Selection())
}

// Plan builds the render plan, optionally restricted to only.
func (l *Loaded) Plan(cfg *config.Config, only []string) (*plan.Plan, error) {
	resolved := make([]string, 0, len(only))
	for _, p := range only {
		resolved = append(resolved, l.File.Resolve(p))
	}
	return plan.Build(l.Session, plan.BuildConfig{
		PrimaryExtension: cfg.Render.PrimaryExtension,
		Colorspace:       cfg.Render.Colorspace,
		Only:             resolved,
	})
}
