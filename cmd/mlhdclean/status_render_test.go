package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"mlhdclean/internal/preflight"
)

func TestCheckLinePlain(t *testing.T) {
	got := checkLine(preflight.Result{Name: "Input root", Detail: "/data/mlhd: not found"}, false)
	want := fmt.Sprintf("  FAIL  %-*s %s", checkNameWidth, "Input root", "/data/mlhd: not found")
	if got != want {
		t.Fatalf("checkLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestCheckLineColorizesMarkOnly(t *testing.T) {
	got := checkLine(preflight.Result{Name: "Output root", Passed: true, Detail: "/data/clean"}, true)
	if !strings.HasPrefix(got, "  "+ansiGreen+"PASS"+ansiReset) {
		t.Fatalf("expected green PASS mark, got %q", got)
	}
	if !strings.HasSuffix(got, "/data/clean") {
		t.Fatalf("detail should stay uncoloured, got %q", got)
	}
}

func TestPreflightReport(t *testing.T) {
	lines := preflightReport([]preflight.Result{
		{Name: "Input root", Passed: true, Detail: "/data/mlhd"},
		{Name: "Reference catalog", Detail: "not imported"},
	}, false)
	if len(lines) != 3 {
		t.Fatalf("expected title and two checks, got %q", lines)
	}
	if lines[0] != "Preflight: 1/2 checks passed" {
		t.Fatalf("title = %q", lines[0])
	}
	if !strings.Contains(lines[1], "PASS") || !strings.Contains(lines[2], "FAIL") {
		t.Fatalf("unexpected lines %q", lines[1:])
	}

	if empty := preflightReport(nil, false); len(empty) != 1 || empty[0] != "Preflight: 0/0 checks passed" {
		t.Fatalf("empty report = %q", empty)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"Table", "Rows"}, [][]string{{"recording_gid"}}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "recording_gid") || !strings.Contains(out, "TABLE") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("empty headers should render nothing")
	}
}
