package plan

import (
	"errors"
	"testing"

	"ingest/internal/mapping"
	"ingest/internal/options"
	"ingest/internal/services"
	"ingest/internal/session"
	"ingest/internal/shots"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.New("24", nil)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return s
}

func addFootage(t *testing.T, s *session.Session, path string, first, last int, defs ...shots.Definition) {
	t.Helper()
	if _, err := s.AddFootageItem(session.FootageItem{Path: path, Clip: shots.ClipBounds{First: first, Last: last}}); err != nil {
		t.Fatalf("AddFootageItem: %v", err)
	}
	for _, def := range defs {
		if err := s.AddShot(path, def); err != nil {
			t.Fatalf("AddShot: %v", err)
		}
	}
}

func isScale(stage Stage, factor float64) bool {
	return stage.Kind == StageScale && stage.Scale == factor
}

func defaultConfig() BuildConfig {
	return BuildConfig{PrimaryExtension: "exr", Colorspace: "DRAGONcolor2"}
}

func TestBuildEndToEndScenario(t *testing.T) {
	s := newSession(t)
	s.AddMapping(mapping.Rule{Input: "{NAME}.mov", Output: "/render/{NAME}/{SHOT}.exr"})
	addFootage(t, s, "clipA.mov", 1000, 1050,
		shots.Definition{Number: 1, Start: 1001, End: 1010, Increment: 1, HandleLength: 12},
		shots.Definition{Number: 2, Start: 1020, End: 1040, Increment: 1, Handles: true, HandleLength: 12},
	)

	p, err := Build(s, defaultConfig())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(p.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d: %+v", len(p.Jobs), p.Jobs)
	}
	want := []struct {
		output           string
		start, end, incr int
	}{
		{"/render/clipA/1.exr", 1001, 1010, 1},
		{"/render/clipA/2.exr", 1008, 1050, 1},
	}
	for i, w := range want {
		job := p.Jobs[i]
		if job.Kind != KindPrimary || job.Output != w.output || job.Start != w.start || job.End != w.end || job.Increment != w.incr {
			t.Fatalf("job %d = %+v, want %+v", i, job, w)
		}
		if job.Format != "exr" || !job.HalfFloat || job.Metadata != MetadataAllExceptInput {
			t.Fatalf("job %d has unexpected write settings %+v", i, job)
		}
	}
	if len(p.Skipped) != 0 || len(p.Hooks) != 0 {
		t.Fatalf("unexpected skipped/hooks: %+v %+v", p.Skipped, p.Hooks)
	}
}

func TestBuildShotSubstitutionAndExtension(t *testing.T) {
	s := newSession(t)
	s.AddMapping(mapping.Rule{Input: "/in/{NAME}/", Output: "/out/{NAME}_{SHOT}.mov"})
	addFootage(t, s, "/in/seqA/take1.mov", 0, 100, shots.Definition{Number: 5, Start: 0, End: 10, Increment: 1})

	p, err := Build(s, defaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Jobs[0].Output; got != "/out/seqA_5.exr" {
		t.Fatalf("output = %q, want /out/seqA_5.exr", got)
	}
	if p.Footage[0].Template != "/out/seqA_{SHOT}.exr" {
		t.Fatalf("unexpected template %q", p.Footage[0].Template)
	}
}

func TestBuildSkipsUnmatchedFootage(t *testing.T) {
	s := newSession(t)
	s.AddMapping(mapping.Rule{Input: "/footage/{X}.mov", Output: "/out/{X}/{SHOT}.exr"})
	addFootage(t, s, "/elsewhere/a.mov", 0, 10, shots.New(0))
	addFootage(t, s, "/footage/b.mov", 0, 10, shots.Definition{Number: 1, Start: 0, End: 5, Increment: 1})

	p, err := Build(s, defaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Jobs) != 1 || p.Jobs[0].Footage != "/footage/b.mov" {
		t.Fatalf("expected only matched footage to produce jobs, got %+v", p.Jobs)
	}
	if len(p.Skipped) != 1 || p.Skipped[0] != (Skipped{Footage: "/elsewhere/a.mov", Reason: ReasonNoMapping}) {
		t.Fatalf("unexpected skipped %+v", p.Skipped)
	}
}

func TestBuildProxyJobsAreAdjacentAndIndependent(t *testing.T) {
	s := newSession(t)
	s.AddMapping(mapping.Rule{Input: "/f/{X}.mov", Output: "/out/{X}/{X}_{SHOT}.exr"})
	addFootage(t, s, "/f/clip.mov", 0, 100,
		shots.Definition{Number: 10, Start: 0, End: 9, Increment: 1},
		shots.Definition{Number: 20, Start: 10, End: 19, Increment: 2},
	)
	s.AddMetadata("show", "demo")
	g := options.Default()
	g.Downscale = options.Downscale{Enabled: true, Factor: 0.5}
	g.Proxy = options.Proxy{Enabled: true, Format: options.ProxyTarga, Scale: 0.25, SubdirEnabled: true, Subdir: "/proxy", SuffixEnabled: true, Suffix: "_lo"}
	if err := s.SetOptions(g); err != nil {
		t.Fatal(err)
	}

	p, err := Build(s, defaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Jobs) != 4 {
		t.Fatalf("expected 4 jobs, got %d", len(p.Jobs))
	}
	kinds := []JobKind{KindPrimary, KindProxy, KindPrimary, KindProxy}
	for i, kind := range kinds {
		if p.Jobs[i].Kind != kind {
			t.Fatalf("job %d kind = %s, want %s", i, p.Jobs[i].Kind, kind)
		}
	}

	primary, proxy := p.Jobs[0], p.Jobs[1]
	if proxy.Output != "/out/clip/proxy/clip_10_lo.tga" {
		t.Fatalf("proxy output = %q", proxy.Output)
	}
	if proxy.Format != "targa" || proxy.Range() != primary.Range() {
		t.Fatalf("proxy mismatch: %+v vs %+v", proxy, primary)
	}
	if p.Jobs[3].Increment != 2 || p.Jobs[3].Start != 10 {
		t.Fatalf("second proxy should share the shot range, got %+v", p.Jobs[3])
	}

	if len(primary.Chain) != 2 || primary.Chain[0].Kind != StageMetadata || !isScale(primary.Chain[1], 0.5) {
		t.Fatalf("unexpected primary chain %+v", primary.Chain)
	}
	if len(proxy.Chain) != 2 || !isScale(proxy.Chain[1], 0.25) {
		t.Fatalf("proxy chain should scale the unscaled source once, got %+v", proxy.Chain)
	}
	if proxy.Chain[0].Script != `{set ingest/show "\demo"}` {
		t.Fatalf("unexpected metadata script %q", proxy.Chain[0].Script)
	}
}

func TestBuildProxyWithoutScaleHasNoScaleStage(t *testing.T) {
	s := newSession(t)
	s.AddMapping(mapping.Rule{Input: "/f/{X}.mov", Output: "/out/{X}_{SHOT}.exr"})
	addFootage(t, s, "/f/clip.mov", 0, 100, shots.Definition{Number: 1, Start: 0, End: 9, Increment: 1})
	g := options.Default()
	g.Proxy.Enabled = true
	if err := s.SetOptions(g); err != nil {
		t.Fatal(err)
	}

	p, err := Build(s, defaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	proxy := p.Jobs[1]
	if len(proxy.Chain) != 1 || proxy.Chain[0].Kind != StageMetadata {
		t.Fatalf("unexpected proxy chain %+v", proxy.Chain)
	}
	if proxy.Output != "/out/clip_1.jpeg" {
		t.Fatalf("proxy output = %q", proxy.Output)
	}
}

func TestBuildHooksUseUnclampedRange(t *testing.T) {
	s := newSession(t)
	s.AddMapping(mapping.Rule{Input: "/f/{X}.mov", Output: "/out/{X}_{SHOT}.exr"})
	addFootage(t, s, "/f/clip.mov", 100, 200,
		shots.Definition{Number: 3, Start: 90, End: 250, Increment: 1, Handles: true, HandleLength: 5},
		shots.Definition{Number: 4, Start: 300, End: 310, Increment: 1},
	)
	g := options.Default()
	g.Command = "publish --shot {SHOT} --range {START}-{END}"
	if err := s.SetOptions(g); err != nil {
		t.Fatal(err)
	}

	p, err := Build(s, defaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Hooks) != 2 {
		t.Fatalf("expected a hook per shot, got %+v", p.Hooks)
	}
	if p.Hooks[0].Command != "publish --shot 3 --range 90-250" {
		t.Fatalf("unexpected hook %q", p.Hooks[0].Command)
	}
	if job := p.Jobs[0]; job.Start != 100 || job.End != 200 {
		t.Fatalf("job should be clamped, got %+v", job)
	}
	if len(p.Jobs) != 1 {
		t.Fatalf("shot outside the clip should not render, got %+v", p.Jobs)
	}
	if len(p.Skipped) != 1 || p.Skipped[0] != (Skipped{Footage: "/f/clip.mov", Shot: 4, Reason: ReasonEmptyRange}) {
		t.Fatalf("unexpected skipped %+v", p.Skipped)
	}
}

func TestBuildColorspaceHoistedToFootage(t *testing.T) {
	s := newSession(t)
	s.AddMapping(mapping.Rule{Input: "/f/{X}.r3d", Output: "/out/{X}_{SHOT}.exr"})
	addFootage(t, s, "/f/a.r3d", 0, 100, shots.Definition{Number: 1, Start: 0, End: 9, Increment: 1}, shots.Definition{Number: 2, Start: 10, End: 19, Increment: 1})
	addFootage(t, s, "/f/b.r3d", 0, 100)
	g := options.Default()
	g.ColorspaceOverride = true
	if err := s.SetOptions(g); err != nil {
		t.Fatal(err)
	}

	p, err := Build(s, defaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	a, _ := p.DecodeFor("/f/a.r3d")
	b, _ := p.DecodeFor("/f/b.r3d")
	if a.Colorspace != "DRAGONcolor2" {
		t.Fatalf("expected override on footage with shots, got %+v", a)
	}
	if b.Colorspace != "" {
		t.Fatalf("footage without shots keeps its decode untouched, got %+v", b)
	}
}

func TestBuildOnlyFilter(t *testing.T) {
	s := newSession(t)
	s.AddMapping(mapping.Rule{Input: "/f/{X}.mov", Output: "/out/{X}_{SHOT}.exr"})
	addFootage(t, s, "/f/a.mov", 0, 10, shots.Definition{Number: 1, Start: 0, End: 5, Increment: 1})
	addFootage(t, s, "/f/b.mov", 0, 10, shots.Definition{Number: 1, Start: 0, End: 5, Increment: 1})

	cfg := defaultConfig()
	cfg.Only = []string{"/f/b.mov"}
	p, err := Build(s, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Jobs) != 1 || p.Jobs[0].Footage != "/f/b.mov" {
		t.Fatalf("unexpected jobs %+v", p.Jobs)
	}
}

func TestBuildDoesNotMutateSession(t *testing.T) {
	s := newSession(t)
	s.AddMapping(mapping.Rule{Input: "/f/{X}.mov", Output: "/out/{X}_{SHOT}.exr"})
	addFootage(t, s, "/f/a.mov", 0, 10, shots.Definition{Number: 1, Start: 2, End: 5, Increment: 1, Handles: true, HandleLength: 4})
	before := s.Shots("/f/a.mov")

	if _, err := Build(s, defaultConfig()); err != nil {
		t.Fatal(err)
	}
	after := s.Shots("/f/a.mov")
	if before[0] != after[0] {
		t.Fatalf("session shot changed: %+v -> %+v", before[0], after[0])
	}
}

func TestBuildRejectsInvalidMapping(t *testing.T) {
	s := newSession(t)
	s.AddMapping(mapping.Rule{Input: "/f/[{X}", Output: "/o"})
	if _, err := Build(s, defaultConfig()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProxyPath(t *testing.T) {
	tests := []struct {
		name    string
		primary string
		proxy   options.Proxy
		want    string
	}{
		{"same dir", "/out/a/shot_1.exr", options.Proxy{Format: options.ProxyPNG}, "/out/a/shot_1.png"},
		{"subdir leading slash stripped", "/out/a/shot_1.exr", options.Proxy{Format: options.ProxyTIFF, SubdirEnabled: true, Subdir: "//lo"}, "/out/a/lo/shot_1.tiff"},
		{"subdir disabled", "/out/a/shot_1.exr", options.Proxy{Format: options.ProxyJPEG, Subdir: "lo"}, "/out/a/shot_1.jpeg"},
		{"suffix", "/out/a/shot_1.exr", options.Proxy{Format: options.ProxyJPEG, SuffixEnabled: true, Suffix: "_proxy"}, "/out/a/shot_1_proxy.jpeg"},
		{"frame token kept", "/out/a/shot_1.####.exr", options.Proxy{Format: options.ProxyJPEG}, "/out/a/shot_1.####.jpeg"},
		{"relative", "shot_1.exr", options.Proxy{Format: options.ProxyPNG, SubdirEnabled: true, Subdir: "p"}, "p/shot_1.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := options.Default()
			g.Proxy = tt.proxy
			if got := ProxyPath(tt.primary, g); got != tt.want {
				t.Fatalf("ProxyPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlanOutputDirsAndFrames(t *testing.T) {
	p := &Plan{Jobs: []Job{
		{Output: "/out/a/1.exr", Start: 1, End: 10, Increment: 1},
		{Output: "/out/a/lo/1.jpeg", Start: 1, End: 10, Increment: 3},
		{Output: "/out/a/2.exr", Start: 5, End: 5, Increment: 1},
	}}
	dirs := p.OutputDirs()
	if len(dirs) != 2 || dirs[0] != "/out/a" || dirs[1] != "/out/a/lo" {
		t.Fatalf("unexpected dirs %v", dirs)
	}
	if got := p.Frames(); got != 10+4+1 {
		t.Fatalf("Frames = %d", got)
	}
}
