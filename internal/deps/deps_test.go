package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ingest/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" || results[0].Path != present {
		t.Fatalf("expected first requirement to resolve to %s, got %#v", present, results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Available || results[2].Detail != "command not configured" || results[2].Command != "" {
		t.Fatalf("unexpected status for unset command: %#v", results[2])
	}
}

func TestCheckResolvesFromPath(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "ingest-stub-tool")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	plain := filepath.Join(binDir, "not-executable")
	if err := os.WriteFile(plain, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir)

	status := Check(Requirement{Name: "Stub", Command: " ingest-stub-tool "})
	if !status.Available || status.Path != stub || status.Command != "ingest-stub-tool" {
		t.Fatalf("unexpected status %#v", status)
	}
	status = Check(Requirement{Name: "Plain", Command: plain})
	if status.Available || !strings.Contains(status.Detail, "unusable") {
		t.Fatalf("expected non-executable file to be unusable, got %#v", status)
	}
}

func TestRequirementsFollowBackend(t *testing.T) {
	cfg := config.Default()
	reqs := Requirements(&cfg)
	optional := map[string]bool{}
	for _, req := range reqs {
		optional[req.Name] = req.Optional
	}
	if optional["FFmpeg"] || !optional["Nuke"] || optional["FFprobe"] {
		t.Fatalf("unexpected optional flags for ffmpeg backend: %v", optional)
	}

	cfg.Render.Backend = config.BackendNuke
	for _, req := range Requirements(&cfg) {
		optional[req.Name] = req.Optional
	}
	if !optional["FFmpeg"] || optional["Nuke"] {
		t.Fatalf("unexpected optional flags for nuke backend: %v", optional)
	}
}

func TestMissingIgnoresOptional(t *testing.T) {
	statuses := []Status{
		{Requirement: Requirement{Name: "a"}},
		{Requirement: Requirement{Name: "b", Optional: true}},
		{Requirement: Requirement{Name: "c"}, Available: true},
	}
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "a" {
		t.Fatalf("unexpected missing set %#v", missing)
	}
}
