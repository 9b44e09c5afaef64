package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"streamsched/internal/preflight"
	"streamsched/internal/schedule"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Daemon", statusError, "Not running", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Daemon:", "[ERROR] Not running")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Daemon", statusOK, "Running", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestRenderStatusReport(t *testing.T) {
	report := statusReport{
		Daemon: preflight.Result{Name: "Daemon", Detail: "connection refused"},
		PID:    4242,
		API:    "http://127.0.0.1:5555",
		Checks: []preflight.Result{
			{Name: "Data directory", Passed: true, Detail: "/data (read/write ok)"},
			{Name: "Config document", Detail: "/data/config.json (error: bad json)"},
		},
	}
	lines := strings.Join(renderStatusReport(report, false), "\n")
	requireContains(t, lines, "[WARN] pid 4242 recorded but API unreachable")
	requireContains(t, lines, "[OK] /data (read/write ok)")
	requireContains(t, lines, "[ERROR] /data/config.json")
}

func TestRenderSlotTable(t *testing.T) {
	if got := renderSlotTable(nil); !strings.Contains(got, "No stream slots") {
		t.Fatalf("empty table = %q", got)
	}
	got := renderSlotTable([]schedule.Slot{{Time: "9:30 AM - 12:30 PM", Title: "Morning Warmup", Desc: "Admin"}})
	for _, want := range []string{"Time", "9:30 AM - 12:30 PM", "Morning Warmup"} {
		requireContains(t, got, want)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
