package main

import (
	"encoding/json"
	"testing"

	"mlhdclean/internal/testsupport"
)

func TestCatalogImportFromConfiguredDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteCatalogExport(t, env.cfg.Catalog.SourceDir)

	out, _, err := runCLI(t, []string{"catalog", "import"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog import: %v", err)
	}
	requireContains(t, out, "recording_redirects")
	requireContains(t, out, "artist_credit_release_gid")
	requireContains(t, out, "Imported 7 rows")

	out, _, err = runCLI(t, []string{"catalog", "stats", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog stats: %v", err)
	}
	var stats []catalogTableStat
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode stats: %v\n%s", err, out)
	}
	want := map[string]int64{
		"recording_gid":             3,
		"recording_redirects":       1,
		"recording_canonical":       1,
		"artist_credit_release_gid": 2,
	}
	if len(stats) != len(want) {
		t.Fatalf("expected %d tables, got %d", len(want), len(stats))
	}
	for _, stat := range stats {
		if !stat.Imported || stat.Rows != want[stat.Table] {
			t.Fatalf("table %s: imported=%v rows=%d, want %d", stat.Table, stat.Imported, stat.Rows, want[stat.Table])
		}
	}
}

func TestCatalogStatsBeforeImport(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"catalog", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog stats: %v", err)
	}
	requireContains(t, out, "never")
	requireContains(t, out, "Not ready")
}

func TestCatalogImportRejectsBothSources(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"catalog", "import", "--from-dir", env.baseDir, "--from-postgres"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for conflicting sources")
	}
	requireContains(t, err.Error(), "mutually exclusive")
}

func TestCatalogImportPostgresNeedsURL(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"catalog", "import", "--from-postgres"}, env.configPath)
	if err == nil {
		t.Fatal("expected error without a database URL")
	}
	requireContains(t, err.Error(), "MB_DATABASE_URL")
}

func TestCatalogImportMissingExport(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"catalog", "import", "--from-dir", t.TempDir()}, env.configPath)
	if err == nil {
		t.Fatal("expected error for empty export directory")
	}
}
