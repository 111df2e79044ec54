package session

import (
	"context"
	"fmt"
	"io"
	"slices"

	"ingest/internal/mapping"
	"ingest/internal/options"
	"ingest/internal/services"
	"ingest/internal/shots"
	"ingest/internal/textutil"
	"ingest/internal/timecode"
)

// Prober reports the decodable frame range and embedded start timecode of a clip.
type Prober interface {
	Probe(ctx context.Context, path string) (shots.ClipBounds, string, error)
}

// FootageItem is one imported source clip.
type FootageItem struct {
	Path string `json:"path"`
	// FrameOffset is the frame number of the clip's start timecode at the
	// session frame rate, zero when the clip carries none.
	FrameOffset int              `json:"frame_offset"`
	Clip        shots.ClipBounds `json:"clip"`
	Timecode    string           `json:"timecode,omitempty"`
}

type footageEntry struct {
	item  FootageItem
	shots []shots.Definition
}

// Session is the aggregate root of one ingest.
type Session struct {
	rate     timecode.Rate
	prober   Prober
	footage  []*footageEntry
	mappings []mapping.Rule
	metadata []MetadataEntry
	options  options.Global
}

// New creates an empty session at the named frame rate. prober may be nil
// when every footage item is added with explicit clip bounds.
func New(rate string, prober Prober) (*Session, error) {
	r, err := timecode.ParseRate(rate)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "session", "frame rate", "", err)
	}
	return &Session{rate: r, prober: prober, options: options.Default()}, nil
}

// Rate returns the session frame rate.
func (s *Session) Rate() timecode.Rate {
	return s.rate
}

func (s *Session) find(path string) (*footageEntry, int) {
	path = textutil.NormalizePath(path)
	for i, entry := range s.footage {
		if entry.item.Path == path {
			return entry, i
		}
	}
	return nil, -1
}

func (s *Session) mustFind(path string) (*footageEntry, error) {
	entry, _ := s.find(path)
	if entry == nil {
		return nil, services.Wrap(services.ErrNotFound, "session", "footage", path, nil)
	}
	return entry, nil
}

// AddFootage imports path, probing its clip bounds and timecode. Importing a
// path already in the session returns the existing item and added=false.
func (s *Session) AddFootage(ctx context.Context, path string) (FootageItem, bool, error) {
	path = textutil.NormalizePath(path)
	if entry, _ := s.find(path); entry != nil {
		return entry.item, false, nil
	}
	if s.prober == nil {
		return FootageItem{}, false, services.Wrap(services.ErrConfiguration, "session", "add footage", fmt.Sprintf("%s: no prober configured and no clip bounds given", path), nil)
	}
	clip, tc, err := s.prober.Probe(ctx, path)
	if err != nil {
		return FootageItem{}, false, err
	}
	item := FootageItem{Path: path, Clip: clip, Timecode: tc}
	if err := s.addItem(&item); err != nil {
		return FootageItem{}, false, err
	}
	return item, true, nil
}

// AddFootageItem imports a clip whose bounds are already known. The frame
// offset is derived from item.Timecode. Returns false when the path is
// already present.
func (s *Session) AddFootageItem(item FootageItem) (bool, error) {
	item.Path = textutil.NormalizePath(item.Path)
	if entry, _ := s.find(item.Path); entry != nil {
		return false, nil
	}
	if err := s.addItem(&item); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Session) addItem(item *FootageItem) error {
	if item.Path == "" {
		return services.Wrap(services.ErrValidation, "session", "add footage", "empty path", nil)
	}
	if item.Clip.First > item.Clip.Last {
		return services.Wrap(services.ErrValidation, "session", "add footage", fmt.Sprintf("%s: first frame %d after last frame %d", item.Path, item.Clip.First, item.Clip.Last), nil)
	}
	item.FrameOffset = 0
	if item.Timecode != "" {
		offset, err := s.rate.Frames(item.Timecode)
		if err != nil {
			return services.Wrap(services.ErrValidation, "session", "add footage", item.Path, err)
		}
		item.FrameOffset = offset
	}
	s.footage = append(s.footage, &footageEntry{item: *item})
	return nil
}

// RemoveFootage removes path and its shots. It reports whether path was present.
func (s *Session) RemoveFootage(path string) bool {
	_, idx := s.find(path)
	if idx < 0 {
		return false
	}
	s.footage = slices.Delete(s.footage, idx, idx+1)
	return true
}

// Footage returns the imported footage in insertion order.
func (s *Session) Footage() []FootageItem {
	items := make([]FootageItem, 0, len(s.footage))
	for _, entry := range s.footage {
		items = append(items, entry.item)
	}
	return items
}

// Lookup returns the footage item for path.
func (s *Session) Lookup(path string) (FootageItem, bool) {
	entry, _ := s.find(path)
	if entry == nil {
		return FootageItem{}, false
	}
	return entry.item, true
}

// Shots returns the shot list of path in table order.
func (s *Session) Shots(path string) []shots.Definition {
	entry, _ := s.find(path)
	if entry == nil {
		return nil
	}
	return slices.Clone(entry.shots)
}

// NewShot appends a default shot to path and returns it.
func (s *Session) NewShot(path string) (shots.Definition, error) {
	entry, err := s.mustFind(path)
	if err != nil {
		return shots.Definition{}, err
	}
	def := shots.New(len(entry.shots))
	if err := s.checkShot(entry, def, -1); err != nil {
		return shots.Definition{}, err
	}
	entry.shots = append(entry.shots, def)
	return def, nil
}

// AddShot appends def to the shot list of path.
func (s *Session) AddShot(path string, def shots.Definition) error {
	entry, err := s.mustFind(path)
	if err != nil {
		return err
	}
	if err := s.checkShot(entry, def, -1); err != nil {
		return err
	}
	entry.shots = append(entry.shots, def)
	return nil
}

// UpdateShot replaces the shot at index.
func (s *Session) UpdateShot(path string, index int, def shots.Definition) error {
	entry, err := s.mustFind(path)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(entry.shots) {
		return services.Wrap(services.ErrNotFound, "session", "update shot", fmt.Sprintf("%s: no shot at row %d", path, index), nil)
	}
	if err := s.checkShot(entry, def, index); err != nil {
		return err
	}
	entry.shots[index] = def
	return nil
}

// RemoveShot deletes the shot at index; later rows move up.
func (s *Session) RemoveShot(path string, index int) error {
	entry, err := s.mustFind(path)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(entry.shots) {
		return services.Wrap(services.ErrNotFound, "session", "remove shot", fmt.Sprintf("%s: no shot at row %d", path, index), nil)
	}
	entry.shots = slices.Delete(entry.shots, index, index+1)
	return nil
}

func (s *Session) checkShot(entry *footageEntry, def shots.Definition, skip int) error {
	if err := def.Validate(); err != nil {
		return err
	}
	for i, existing := range entry.shots {
		if i != skip && existing.Number == def.Number {
			return services.Wrap(services.ErrValidation, "session", "add shot", fmt.Sprintf("%s: shot number %d already used", entry.item.Path, def.Number), nil)
		}
	}
	return nil
}

// AddMapping appends a rule to the mapping table.
func (s *Session) AddMapping(rule mapping.Rule) {
	s.mappings = append(s.mappings, rule)
}

// RemoveMapping deletes the rule at index.
func (s *Session) RemoveMapping(index int) error {
	if index < 0 || index >= len(s.mappings) {
		return services.Wrap(services.ErrNotFound, "session", "remove mapping", fmt.Sprintf("no mapping at row %d", index), nil)
	}
	s.mappings = slices.Delete(s.mappings, index, index+1)
	return nil
}

// ImportMappings replaces the mapping table with the rows of a mapping CSV.
// Rows read before a malformed row stay in the table.
func (s *Session) ImportMappings(r io.Reader) (int, error) {
	s.mappings = nil
	return mapping.ReadCSV(r, s.AddMapping)
}

// Mappings returns the mapping table in order.
func (s *Session) Mappings() []mapping.Rule {
	return slices.Clone(s.mappings)
}

// AddMetadata appends a metadata entry.
func (s *Session) AddMetadata(key, value string) {
	s.metadata = append(s.metadata, MetadataEntry{Key: key, Value: value})
}

// RemoveMetadata deletes the entry at index.
func (s *Session) RemoveMetadata(index int) error {
	if index < 0 || index >= len(s.metadata) {
		return services.Wrap(services.ErrNotFound, "session", "remove metadata", fmt.Sprintf("no metadata at row %d", index), nil)
	}
	s.metadata = slices.Delete(s.metadata, index, index+1)
	return nil
}

// Metadata returns the metadata entries in order.
func (s *Session) Metadata() []MetadataEntry {
	return slices.Clone(s.metadata)
}

// SetOptions replaces the global options after validating them.
func (s *Session) SetOptions(g options.Global) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.options = g
	return nil
}

// Options returns the global options.
func (s *Session) Options() options.Global {
	return s.options
}
