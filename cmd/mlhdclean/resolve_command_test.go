package main

import (
	"encoding/json"
	"strings"
	"testing"

	"mlhdclean/internal/catalog"
	"mlhdclean/internal/testsupport"
)

func TestTraceResolution(t *testing.T) {
	tables := catalog.NewBuilder().
		AddKnown("b").
		AddRedirect("a", "b").
		AddCanonical("b", "c").
		AddCredit("c", catalog.Credit{ArtistIDs: "x", ReleaseID: "r"}).
		Build()

	got := traceResolution(tables, " A ")
	want := resolveTrace{
		Input:       " A ",
		Redirected:  "b",
		Canonical:   "c",
		RecordingID: "c",
		ArtistIDs:   "x",
		ReleaseID:   "r",
	}
	if got != want {
		t.Fatalf("trace = %+v, want %+v", got, want)
	}

	got = traceResolution(tables, "zzz")
	if got.RecordingID != "zzz" || got.Redirected != "" || got.Canonical != "" || got.ArtistIDs != "" {
		t.Fatalf("unknown id trace = %+v", got)
	}
}

func TestResolveCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.MustImportCatalog(t, env.cfg)

	out, _, err := runCLI(t, []string{"resolve", "--json", testsupport.RecordingMerged, strings.ToUpper(testsupport.RecordingVariant)}, env.configPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var traces []resolveTrace
	if err := json.Unmarshal([]byte(out), &traces); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(traces) != 2 {
		t.Fatalf("expected 2 traces, got %d", len(traces))
	}
	if traces[0].Redirected != testsupport.RecordingCurrent || traces[0].ReleaseID != testsupport.ReleaseOne {
		t.Fatalf("merged trace = %+v", traces[0])
	}
	if !traces[1].Known || traces[1].Canonical != testsupport.RecordingCanonical {
		t.Fatalf("variant trace = %+v", traces[1])
	}

	out, _, err = runCLI(t, []string{"resolve", testsupport.RecordingUnknown}, env.configPath)
	if err != nil {
		t.Fatalf("resolve table: %v", err)
	}
	requireContains(t, out, testsupport.RecordingUnknown)
}

func TestResolveCommandRequiresCatalog(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"resolve", testsupport.RecordingCurrent}, env.configPath)
	if err == nil {
		t.Fatal("expected error without imported catalog")
	}
}
