package plan

import (
	"path/filepath"

	"ingest/internal/session"
	"ingest/internal/shots"
)

// JobKind distinguishes the primary rendition from its proxy.
type JobKind string

const (
	KindPrimary JobKind = "primary"
	KindProxy   JobKind = "proxy"
)

// StageKind names a processing stage.
type StageKind string

const (
	// StageMetadata stamps the session metadata and passes source metadata through.
	StageMetadata StageKind = "metadata"
	// StageScale resizes the image by a uniform factor.
	StageScale StageKind = "scale"
)

// Stage is one processing step between decode and write.
type Stage struct {
	Kind     StageKind               `json:"kind"`
	Scale    float64                 `json:"scale,omitempty"`
	Metadata []session.MetadataEntry `json:"metadata,omitempty"`
	// Script is the host metadata script equivalent of Metadata.
	Script string `json:"script,omitempty"`
}

// MetadataPolicy controls which metadata a write keeps.
type MetadataPolicy string

const (
	// MetadataAllExceptInput writes everything except the decoder's input/* keys.
	MetadataAllExceptInput MetadataPolicy = "all_except_input"
	// MetadataDefault leaves the write format's default behaviour.
	MetadataDefault MetadataPolicy = "default"
)

// Decode is the per-footage source configuration shared by all its jobs.
type Decode struct {
	Path string           `json:"path"`
	Clip shots.ClipBounds `json:"clip"`
	// Colorspace, when set, overrides the decoder's camera colorspace.
	Colorspace string `json:"colorspace,omitempty"`
}

// Job renders one frame range of one footage item to one image sequence.
type Job struct {
	Kind    JobKind `json:"kind"`
	Footage string  `json:"footage"`
	Shot    int     `json:"shot"`
	Output  string  `json:"output"`
	// Format is the file type written, e.g. "exr" or "jpeg".
	Format    string         `json:"format"`
	Start     int            `json:"start"`
	End       int            `json:"end"`
	Increment int            `json:"increment"`
	Chain     []Stage        `json:"chain"`
	Metadata  MetadataPolicy `json:"metadata_policy"`
	// HalfFloat requests 16-bit float channels when the format supports it.
	HalfFloat bool `json:"half_float,omitempty"`
}

// Range returns the job's frame range.
func (j Job) Range() shots.Range {
	return shots.Range{Start: j.Start, End: j.End, Increment: j.Increment}
}

// OutputDir returns the directory the job writes into.
func (j Job) OutputDir() string {
	return filepath.Dir(j.Output)
}

// Hook is a per-shot external command.
type Hook struct {
	Footage string `json:"footage"`
	Shot    int    `json:"shot"`
	Command string `json:"command"`
}

// Skip reasons.
const (
	ReasonNoMapping  = "no mapping matched"
	ReasonEmptyRange = "empty frame range"
)

// Skipped records footage or a shot that produced no jobs.
type Skipped struct {
	Footage string `json:"footage"`
	// Shot is zero for footage-level skips.
	Shot   int    `json:"shot,omitempty"`
	Reason string `json:"reason"`
}

// FootagePlan describes how one footage item is rendered.
type FootagePlan struct {
	Decode Decode `json:"decode"`
	// Template is the resolved output path before shot substitution.
	Template string `json:"template"`
	Rule     int    `json:"rule"`
}

// Plan is the complete, ordered render work for a session.
type Plan struct {
	Footage []FootagePlan `json:"footage"`
	Hooks   []Hook        `json:"hooks"`
	Jobs    []Job         `json:"jobs"`
	Skipped []Skipped     `json:"skipped"`
}

// DecodeFor returns the decode configuration of footage.
func (p *Plan) DecodeFor(footage string) (Decode, bool) {
	for _, fp := range p.Footage {
		if fp.Decode.Path == footage {
			return fp.Decode, true
		}
	}
	return Decode{}, false
}

// OutputDirs returns the distinct output directories in job order.
func (p *Plan) OutputDirs() []string {
	seen := make(map[string]struct{}, len(p.Jobs))
	var dirs []string
	for _, job := range p.Jobs {
		dir := job.OutputDir()
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}

// Frames returns the total number of frames across all jobs.
func (p *Plan) Frames() int {
	total := 0
	for _, job := range p.Jobs {
		total += job.Range().Frames()
	}
	return total
}
