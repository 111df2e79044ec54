package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ingest/internal/options"
	"ingest/internal/services"
	"ingest/internal/shots"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDecodeAndBuild(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mappings.csv", "/footage/{SEQ}/{CLIP}.mov,/render/{SEQ}/{CLIP}_{SHOT}.dpx\n")
	path := writeFile(t, dir, "session.toml", `
frame_rate = "25"
mapping_csv = "mappings.csv"
selection = ["/footage/seqA/clipA.mov"]

[[mapping]]
input = "/other/{X}.mov"
output = "/render/other/{X}.exr"

[[metadata]]
key = "show"
value = "demo"

[options]
command = "echo {SHOT}"

[options.proxy]
enabled = true
format = "png"
scale = 0.5

[[footage]]
path = "/footage/seqA/clipA.mov"
first = 1001
last = 1100

[[footage.shot]]
start = 1010
end = 1020

[[footage.shot]]
number = 5
start = 1030
end = 1040
increment = 2
handles = true
handle_length = 4

[[footage]]
path = "clips/clipB.mov"
timecode = "00:00:01:00"
`)

	f, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	prober := &stubProber{clip: shots.ClipBounds{First: 0, Last: 49}}
	s, err := f.Build(context.Background(), BuildOptions{FrameRate: "24", Prober: prober})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if s.Rate().Name != "25" {
		t.Fatalf("expected file frame rate to win, got %s", s.Rate().Name)
	}
	rules := s.Mappings()
	if len(rules) != 2 || rules[0].Input != "/footage/{SEQ}/{CLIP}.mov" || rules[1].Input != "/other/{X}.mov" {
		t.Fatalf("unexpected mappings %+v", rules)
	}
	if md := s.Metadata(); len(md) != 1 || md[0].Key != "show" {
		t.Fatalf("unexpected metadata %+v", md)
	}
	g := s.Options()
	if !g.Proxy.Enabled || g.Proxy.Format != options.ProxyPNG || g.Proxy.Scale != 0.5 || g.Downscale.Factor != 0.75 {
		t.Fatalf("unexpected options %+v", g)
	}

	footage := s.Footage()
	if len(footage) != 2 {
		t.Fatalf("expected 2 footage items, got %+v", footage)
	}
	if footage[0].Clip != (shots.ClipBounds{First: 1001, Last: 1100}) {
		t.Fatalf("unexpected explicit bounds %+v", footage[0].Clip)
	}
	if want := filepath.Join(dir, "clips", "clipB.mov"); footage[1].Path != want {
		t.Fatalf("expected relative path resolved to %q, got %q", want, footage[1].Path)
	}
	if footage[1].FrameOffset != 25 || footage[1].Clip.Last != 49 {
		t.Fatalf("unexpected probed item %+v", footage[1])
	}
	if len(prober.calls) != 1 {
		t.Fatalf("expected only the unbounded clip to be probed, got %v", prober.calls)
	}

	got := s.Shots("/footage/seqA/clipA.mov")
	want := []shots.Definition{
		{Number: 1, Start: 1010, End: 1020, Increment: 1, HandleLength: 12},
		{Number: 5, Start: 1030, End: 1040, Increment: 2, Handles: true, HandleLength: 4},
	}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected shots %+v", got)
	}

	if sel := f.SelectedPaths(s); len(sel) != 1 || sel[0] != "/footage/seqA/clipA.mov" {
		t.Fatalf("unexpected selection %v", sel)
	}
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBuildRejectsInvalidShot(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "session.toml", `
[[footage]]
path = "/f/a.mov"
first = 0
last = 10

[[footage.shot]]
start = 8
end = 2
`)
	f, err := Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Build(context.Background(), BuildOptions{FrameRate: "24"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBuildReportsMalformedMappingCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.csv", "|unterminated,/x\n")
	path := writeFile(t, dir, "session.toml", `mapping_csv = "bad.csv"`)
	f, err := Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = f.Build(context.Background(), BuildOptions{FrameRate: "24"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSelectedPathsDefaultsToAllFootage(t *testing.T) {
	s, err := New("24", nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"/f/a.mov", "/f/b.mov"} {
		if _, err := s.AddFootageItem(FootageItem{Path: p, Clip: shots.ClipBounds{Last: 1}}); err != nil {
			t.Fatal(err)
		}
	}
	if sel := (&File{}).SelectedPaths(s); len(sel) != 2 {
		t.Fatalf("expected all footage selected, got %v", sel)
	}
}
