package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"ingest/internal/mapping"
	"ingest/internal/options"
	"ingest/internal/services"
	"ingest/internal/shots"
	"ingest/internal/textutil"
)

// File is the on-disk description of a session.
type File struct {
	FrameRate  string          `toml:"frame_rate"`
	MappingCSV string          `toml:"mapping_csv"`
	Mappings   []mapping.Rule  `toml:"mapping"`
	Metadata   []MetadataEntry `toml:"metadata"`
	Options    *options.Global `toml:"options"`
	EDL        *EDLSource      `toml:"edl"`
	Footage    []FootageSpec   `toml:"footage"`
	// Selection limits ingest to these footage paths; empty selects all.
	Selection []string `toml:"selection"`

	dir string
}

// EDLSource points at an EDL whose events become footage and shots.
type EDLSource struct {
	File       string `toml:"file"`
	FootageDir string `toml:"footage_dir"`
	FrameRate  string `toml:"frame_rate"`
}

// FootageSpec describes one footage item. Bounds and timecode override what
// the prober reports; when both bounds are given the clip is not probed.
type FootageSpec struct {
	Path     string     `toml:"path"`
	First    *int       `toml:"first"`
	Last     *int       `toml:"last"`
	Timecode *string    `toml:"timecode"`
	Shots    []ShotSpec `toml:"shot"`
}

// ShotSpec is a shot row; omitted fields take the defaults of a new row.
type ShotSpec struct {
	Number       *int `toml:"number"`
	Start        int  `toml:"start"`
	End          int  `toml:"end"`
	Increment    *int `toml:"increment"`
	Handles      bool `toml:"handles"`
	HandleLength *int `toml:"handle_length"`
}

// Definition converts the spec into a shot definition for the given row.
func (s ShotSpec) Definition(index int) shots.Definition {
	def := shots.New(index)
	if s.Number != nil {
		def.Number = *s.Number
	}
	def.Start = s.Start
	def.End = s.End
	if s.Increment != nil {
		def.Increment = *s.Increment
	}
	def.Handles = s.Handles
	if s.HandleLength != nil {
		def.HandleLength = *s.HandleLength
	}
	return def
}

// Decode reads a session file.
func Decode(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "session", "open", path, err)
		}
		return nil, services.Wrap(services.ErrConfiguration, "session", "open", path, err)
	}
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, services.Wrap(services.ErrValidation, "session", "parse", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve session path: %w", err)
	}
	f.dir = filepath.Dir(abs)
	return &f, nil
}

// Resolve makes p absolute relative to the session file's directory.
func (f *File) Resolve(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if expanded, err := expandHome(p); err == nil {
		p = expanded
	}
	if !filepath.IsAbs(p) && f.dir != "" {
		p = filepath.Join(f.dir, p)
	}
	return textutil.NormalizePath(p)
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// BuildOptions supplies the defaults a session file may omit.
type BuildOptions struct {
	FrameRate string
	Prober    Prober
}

// Build constructs a Session from the file. EDL sources are not imported
// here; see the edl package.
func (f *File) Build(ctx context.Context, opts BuildOptions) (*Session, error) {
	rate := strings.TrimSpace(f.FrameRate)
	if rate == "" {
		rate = opts.FrameRate
	}
	s, err := New(rate, opts.Prober)
	if err != nil {
		return nil, err
	}

	if csvPath := f.Resolve(f.MappingCSV); csvPath != "" {
		file, err := os.Open(csvPath)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "session", "mapping csv", csvPath, err)
		}
		_, err = s.ImportMappings(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("invalid CSV file %s: %w", csvPath, err)
		}
	}
	for _, rule := range f.Mappings {
		s.AddMapping(rule)
	}
	for _, entry := range f.Metadata {
		s.AddMetadata(entry.Key, entry.Value)
	}
	if f.Options != nil {
		g := *f.Options
		g.Normalize()
		if err := s.SetOptions(g); err != nil {
			return nil, err
		}
	}

	for _, spec := range f.Footage {
		if err := f.addFootage(ctx, s, spec); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (f *File) addFootage(ctx context.Context, s *Session, spec FootageSpec) error {
	path := f.Resolve(spec.Path)
	if path == "" {
		return services.Wrap(services.ErrValidation, "session", "footage", "entry without path", nil)
	}

	item := FootageItem{Path: path}
	if spec.First == nil || spec.Last == nil {
		if s.prober == nil {
			return services.Wrap(services.ErrConfiguration, "session", "footage", fmt.Sprintf("%s: first/last not given and no prober configured", path), nil)
		}
		clip, tc, err := s.prober.Probe(ctx, path)
		if err != nil {
			return err
		}
		item.Clip = clip
		item.Timecode = tc
	}
	if spec.First != nil {
		item.Clip.First = *spec.First
	}
	if spec.Last != nil {
		item.Clip.Last = *spec.Last
	}
	if spec.Timecode != nil {
		item.Timecode = strings.TrimSpace(*spec.Timecode)
	}
	if _, err := s.AddFootageItem(item); err != nil {
		return err
	}

	for _, shotSpec := range spec.Shots {
		def := shotSpec.Definition(len(s.Shots(path)))
		if err := s.AddShot(path, def); err != nil {
			return err
		}
	}
	return nil
}

// SelectedPaths returns the footage selected for ingest: the file's
// selection resolved to absolute paths, or every footage item when empty.
func (f *File) SelectedPaths(s *Session) []string {
	if len(f.Selection) == 0 {
		items := s.Footage()
		paths := make([]string, 0, len(items))
		for _, item := range items {
			paths = append(paths, item.Path)
		}
		return paths
	}
	paths := make([]string, 0, len(f.Selection))
	for _, p := range f.Selection {
		paths = append(paths, f.Resolve(p))
	}
	return paths
}
