package services_test

import (
	"errors"
	"strings"
	"testing"

	"ingest/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "render", "ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"render", "ffmpeg", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestDetailsStripsMarker(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "mapping", "import", "line 3: missing output column", nil)
	details := services.Details(err)
	if details.Kind != "validation" {
		t.Fatalf("kind = %q, want validation", details.Kind)
	}
	if details.Message != "mapping: import: line 3: missing output column" {
		t.Fatalf("unexpected message %q", details.Message)
	}

	plain := services.Details(errors.New("plain"))
	if plain.Kind != "unknown" || plain.Message != "plain" {
		t.Fatalf("unexpected details for plain error: %#v", plain)
	}
	if (services.Details(nil) != services.ErrorDetails{}) {
		t.Fatal("expected zero details for nil error")
	}
}
