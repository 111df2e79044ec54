package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPlanCommandTable(t *testing.T) {
	env := setupCLITestEnv(t)
	session := env.writeSession(t)

	out, _, err := runCLI(t, []string{"plan", session}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, filepath.Join(env.outDir, "clipA", "1.exr"))
	requireContains(t, out, "1001-1010")
	requireContains(t, out, "1008-1050")
	requireContains(t, out, "echo 2 1020 1040")
	requireContains(t, out, "2 jobs, 53 frames, 2 commands")
}

func TestPlanCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	session := env.writeSession(t)

	out, _, err := runCLI(t, []string{"plan", session, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("plan --json: %v", err)
	}
	var decoded struct {
		Readiness struct {
			Ready bool `json:"ready"`
		} `json:"readiness"`
		Frames int `json:"frames"`
		Plan   struct {
			Jobs []struct {
				Output string `json:"output"`
				Start  int    `json:"start"`
				End    int    `json:"end"`
			} `json:"jobs"`
		} `json:"plan"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode plan json: %v\n%s", err, out)
	}
	if !decoded.Readiness.Ready || decoded.Frames != 53 || len(decoded.Plan.Jobs) != 2 {
		t.Fatalf("unexpected plan output %+v", decoded)
	}
	if decoded.Plan.Jobs[1].Start != 1008 || decoded.Plan.Jobs[1].End != 1050 {
		t.Fatalf("unexpected second job %+v", decoded.Plan.Jobs[1])
	}
}

func TestPlanCommandWritesScript(t *testing.T) {
	env := setupCLITestEnv(t)
	session := env.writeSession(t)
	script := filepath.Join(env.baseDir, "scripts", "plan.py")

	out, _, err := runCLI(t, []string{"plan", session, "--script", script}, env.configPath)
	if err != nil {
		t.Fatalf("plan --script: %v", err)
	}
	requireContains(t, out, "Wrote Nuke script")
	data, err := os.ReadFile(script)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if got := strings.Count(string(data), "nuke.execute("); got != 2 {
		t.Fatalf("expected 2 execute calls, got %d:\n%s", got, data)
	}
}

func TestPlanCommandReportsUnreadySession(t *testing.T) {
	env := setupCLITestEnv(t)
	session := filepath.Join(env.baseDir, "empty.toml")
	if err := os.WriteFile(session, []byte("frame_rate = \"24\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, []string{"plan", session}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "Select footage to import")
	requireContains(t, out, "0 jobs, 0 frames, 0 commands")
}
