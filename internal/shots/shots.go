// Package shots resolves shot definitions into renderable frame ranges.
package shots

import (
	"fmt"

	"ingest/internal/services"
)

// DefaultHandleLength is the handle length given to newly added shots.
const DefaultHandleLength = 12

// Definition is one user-entered shot on a footage item.
type Definition struct {
	Number       int  `toml:"number" json:"number"`
	Start        int  `toml:"start" json:"start"`
	End          int  `toml:"end" json:"end"`
	Increment    int  `toml:"increment" json:"increment"`
	Handles      bool `toml:"handles" json:"handles"`
	HandleLength int  `toml:"handle_length" json:"handle_length"`
}

// New returns the default definition for the shot at the given zero-based row.
func New(index int) Definition {
	return Definition{
		Number:       index + 1,
		Increment:    1,
		HandleLength: DefaultHandleLength,
	}
}

// Validate enforces the input-time constraints on a definition.
func (d Definition) Validate() error {
	switch {
	case d.Start > d.End:
		return services.Wrap(services.ErrValidation, "shots", "validate", fmt.Sprintf("shot %d: start %d is after end %d", d.Number, d.Start, d.End), nil)
	case d.Increment < 1:
		return services.Wrap(services.ErrValidation, "shots", "validate", fmt.Sprintf("shot %d: increment must be at least 1, got %d", d.Number, d.Increment), nil)
	case d.HandleLength < 0:
		return services.Wrap(services.ErrValidation, "shots", "validate", fmt.Sprintf("shot %d: handle length must not be negative, got %d", d.Number, d.HandleLength), nil)
	}
	return nil
}

// ClipBounds is the decodable frame range of a footage item, inclusive.
type ClipBounds struct {
	First int `toml:"first" json:"first"`
	Last  int `toml:"last" json:"last"`
}

// Range is a resolved render range, inclusive.
type Range struct {
	Start     int `json:"start"`
	End       int `json:"end"`
	Increment int `json:"increment"`
}

// Empty reports whether the range contains no frames.
func (r Range) Empty() bool {
	return r.Start > r.End
}

// Frames returns the number of frames rendered by the range.
func (r Range) Frames() int {
	if r.Empty() || r.Increment < 1 {
		return 0
	}
	return (r.End-r.Start)/r.Increment + 1
}

// Resolve widens the shot by its handles and clamps the result to the clip.
func Resolve(def Definition, clip ClipBounds) Range {
	handle := 0
	if def.Handles {
		handle = def.HandleLength
	}
	return Range{
		Start:     max(def.Start-handle, clip.First),
		End:       min(def.End+handle, clip.Last),
		Increment: def.Increment,
	}
}
