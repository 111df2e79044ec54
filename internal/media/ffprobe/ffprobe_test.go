package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"ingest/internal/services"
)

func TestFrameCountPrefersNbFrames(t *testing.T) {
	result := Result{Streams: []Stream{
		{CodecType: "audio", NbFrames: "999"},
		{CodecType: "video", NbFrames: "240", AvgFrameRate: "24/1", Duration: "20"},
	}}
	if got := result.FrameCount(); got != 240 {
		t.Fatalf("FrameCount = %d, want 240", got)
	}
}

func TestFrameCountFallsBackToDuration(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video", AvgFrameRate: "24000/1001", Duration: "N/A"}},
		Format:  Format{Duration: "10.010"},
	}
	if got := result.FrameCount(); got != 240 {
		t.Fatalf("FrameCount = %d, want 240", got)
	}
	if got := (Result{}).FrameCount(); got != 0 {
		t.Fatalf("expected 0 for result without video, got %d", got)
	}
}

func TestTimecodeLookupOrder(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video"}, {CodecType: "data", Tags: map[string]string{"timecode": "01:00:00:00"}}},
		Format:  Format{Tags: map[string]string{"TIMECODE": "02:00:00:00"}},
	}
	if got := result.Timecode(); got != "01:00:00:00" {
		t.Fatalf("Timecode = %q", got)
	}
	result.Streams[1].Tags = nil
	if got := result.Timecode(); got != "02:00:00:00" {
		t.Fatalf("Timecode = %q, want container tag", got)
	}
}

func TestDurationSecondsInvalid(t *testing.T) {
	if !math.IsNaN((Result{Format: Format{Duration: "bad"}}).DurationSeconds()) {
		t.Fatal("expected NaN for invalid duration")
	}
}

func writeStub(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffprobe")
	script := "#!/bin/sh\ncat <<'JSON'\n" + body + "\nJSON\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestProberUsesBinary(t *testing.T) {
	stub := writeStub(t, `{"streams":[{"codec_type":"video","nb_frames":"100","tags":{"timecode":"00:00:10:00"}}],"format":{}}`)

	bounds, tc, err := Prober{Binary: stub}.Probe(context.Background(), "/footage/clipA.mov")
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if bounds.First != 0 || bounds.Last != 99 {
		t.Fatalf("unexpected bounds %+v", bounds)
	}
	if tc != "00:00:10:00" {
		t.Fatalf("unexpected timecode %q", tc)
	}
}

func TestProberRejectsClipWithoutFrames(t *testing.T) {
	stub := writeStub(t, `{"streams":[{"codec_type":"audio"}],"format":{}}`)
	_, _, err := Prober{Binary: stub}.Probe(context.Background(), "/footage/audio.wav")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProberWrapsToolFailure(t *testing.T) {
	_, _, err := Prober{Binary: filepath.Join(t.TempDir(), "missing")}.Probe(context.Background(), "/footage/clipA.mov")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
