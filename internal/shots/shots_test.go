package shots

import (
	"errors"
	"testing"

	"ingest/internal/services"
)

func TestResolve(t *testing.T) {
	clip := ClipBounds{First: 1001, Last: 1100}
	tests := []struct {
		name string
		def  Definition
		want Range
	}{
		{
			name: "no handles",
			def:  Definition{Start: 1010, End: 1020, Increment: 1, HandleLength: 12},
			want: Range{Start: 1010, End: 1020, Increment: 1},
		},
		{
			name: "handles inside clip",
			def:  Definition{Start: 1020, End: 1040, Increment: 2, Handles: true, HandleLength: 12},
			want: Range{Start: 1008, End: 1052, Increment: 2},
		},
		{
			name: "handles clamped at both ends",
			def:  Definition{Start: 1005, End: 1095, Increment: 1, Handles: true, HandleLength: 12},
			want: Range{Start: 1001, End: 1100, Increment: 1},
		},
		{
			name: "shot beyond clip",
			def:  Definition{Start: 1200, End: 1300, Increment: 1},
			want: Range{Start: 1200, End: 1100, Increment: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.def, clip)
			if got != tt.want {
				t.Fatalf("Resolve = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveStaysWithinClip(t *testing.T) {
	clip := ClipBounds{First: 0, Last: 50}
	for start := -20; start <= 70; start += 5 {
		for _, handles := range []bool{false, true} {
			def := Definition{Start: start, End: start + 10, Increment: 1, Handles: handles, HandleLength: 8}
			got := Resolve(def, clip)
			if got.Start < clip.First || got.End > clip.Last {
				t.Fatalf("Resolve(%+v) = %+v escapes clip", def, got)
			}
		}
	}
}

func TestRangeEmptyAndFrames(t *testing.T) {
	if !(Range{Start: 10, End: 9, Increment: 1}).Empty() {
		t.Fatal("expected empty range")
	}
	if got := (Range{Start: 1, End: 10, Increment: 3}).Frames(); got != 4 {
		t.Fatalf("Frames = %d, want 4", got)
	}
	if got := (Range{Start: 5, End: 5, Increment: 1}).Frames(); got != 1 {
		t.Fatalf("Frames = %d, want 1", got)
	}
}

func TestNewDefaults(t *testing.T) {
	got := New(2)
	want := Definition{Number: 3, Start: 0, End: 0, Increment: 1, Handles: false, HandleLength: 12}
	if got != want {
		t.Fatalf("New = %+v, want %+v", got, want)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("default definition should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
	}{
		{"start after end", Definition{Number: 1, Start: 10, End: 5, Increment: 1}},
		{"zero increment", Definition{Number: 1, Start: 0, End: 5, Increment: 0}},
		{"negative handles", Definition{Number: 1, Start: 0, End: 5, Increment: 1, HandleLength: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
