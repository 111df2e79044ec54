package edl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ingest/internal/logging"
	"ingest/internal/services"
	"ingest/internal/session"
	"ingest/internal/shots"
	"ingest/internal/timecode"
)

// DefaultShotMultiplier turns event 7 into shot 700.
const DefaultShotMultiplier = 100

// ImportOptions configures how events become footage and shots.
type ImportOptions struct {
	// Rate interprets event timecodes; empty uses the session rate. It must
	// count timecode the same way as the session rate.
	Rate string
	// FootageDir is searched recursively for `<reel>.*`.
	FootageDir     string
	ShotMultiplier int
	// VideoOnly skips audio-only events.
	VideoOnly bool
	Logger    *slog.Logger
}

// Imported records the shot created for one event.
type Imported struct {
	Event   Event            `json:"event"`
	Footage string           `json:"footage"`
	Shot    shots.Definition `json:"shot"`
}

// ResolveFootageDir returns the directory footage is searched in. A path to a
// file is reduced to its parent directory.
func ResolveFootageDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", services.Wrap(services.ErrConfiguration, "edl", "footage dir", "no footage directory given", nil)
	}
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrNotFound, "edl", "footage dir", dir, err)
		}
		return "", services.Wrap(services.ErrConfiguration, "edl", "footage dir", dir, err)
	}
	if !info.IsDir() {
		return filepath.Dir(dir), nil
	}
	return dir, nil
}

// FindFootage returns the first file below dir, in lexical walk order, whose
// name matches `<reel>.*`.
func FindFootage(dir, reel string) (string, bool, error) {
	pattern := reel + ".*"
	if _, err := filepath.Match(pattern, ""); err != nil {
		return "", false, services.Wrap(services.ErrValidation, "edl", "footage lookup", fmt.Sprintf("reel %q is not a valid pattern", reel), err)
	}
	var found string
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if walkErr != nil {
		return "", false, services.Wrap(services.ErrConfiguration, "edl", "footage lookup", dir, walkErr)
	}
	return found, found != "", nil
}

// Import adds every event of list to sess. Event timecodes and each clip's
// start timecode are counted at the import rate, drop-frame when the list
// declares it. Missing footage aborts the import; events processed before the
// failure stay in the session.
func Import(ctx context.Context, sess *session.Session, list *List, opts ImportOptions) ([]Imported, error) {
	if sess == nil || list == nil {
		return nil, services.Wrap(services.ErrValidation, "edl", "import", "session and list are required", nil)
	}
	logger := logging.NewComponentLogger(opts.Logger, "edl")

	rate := sess.Rate()
	if strings.TrimSpace(opts.Rate) != "" {
		r, err := timecode.ParseRate(opts.Rate)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "edl", "frame rate", "", err)
		}
		if r.Base != rate.Base || r.DropFrames != rate.DropFrames {
			return nil, services.Wrap(services.ErrValidation, "edl", "frame rate",
				fmt.Sprintf("edl rate %s does not match session rate %s", r.Name, rate.Name), nil)
		}
		rate = r
	}
	drop := list.DropFrame && rate.DropFrames > 0
	multiplier := opts.ShotMultiplier
	if multiplier <= 0 {
		multiplier = DefaultShotMultiplier
	}
	baseDir, err := ResolveFootageDir(opts.FootageDir)
	if err != nil {
		return nil, err
	}

	var imported []Imported
	for _, event := range list.Events {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		if opts.VideoOnly && !event.IsVideo() {
			continue
		}

		start, err := rate.FramesDrop(event.SourceIn, drop)
		if err != nil {
			return imported, services.Wrap(services.ErrValidation, "edl", "source in", fmt.Sprintf("event %d", event.Number), err)
		}
		end, err := rate.FramesDrop(event.SourceOut, drop)
		if err != nil {
			return imported, services.Wrap(services.ErrValidation, "edl", "source out", fmt.Sprintf("event %d", event.Number), err)
		}

		path, ok, err := FindFootage(baseDir, event.Reel)
		if err != nil {
			return imported, err
		}
		if !ok {
			return imported, services.Wrap(services.ErrNotFound, "edl", "footage lookup",
				fmt.Sprintf("unable to find footage for reel %q (event %d) in %s or any of its children", event.Reel, event.Number, baseDir), nil)
		}

		item, added, err := sess.AddFootage(ctx, path)
		if err != nil {
			return imported, err
		}
		offset := 0
		if item.Timecode != "" {
			offset, err = rate.FramesDrop(item.Timecode, drop)
			if err != nil {
				return imported, services.Wrap(services.ErrValidation, "edl", "clip timecode", item.Path, err)
			}
		}
		if added {
			logger.Debug("footage imported from edl",
				logging.String(logging.FieldFootage, item.Path),
				logging.Int("frame_offset", offset),
			)
		}

		def := shots.New(len(sess.Shots(item.Path)))
		def.Number = event.Number * multiplier
		def.Start = start - offset
		def.End = end - offset
		if err := sess.AddShot(item.Path, def); err != nil {
			return imported, err
		}
		imported = append(imported, Imported{Event: event, Footage: item.Path, Shot: def})
	}

	logger.Info("edl imported",
		logging.Int("events", len(list.Events)),
		logging.Int("shots", len(imported)),
		logging.String("footage_dir", baseDir),
	)
	return imported, nil
}
