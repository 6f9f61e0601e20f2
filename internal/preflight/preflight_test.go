package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mlhdclean/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckReadableDirectory_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckReadableDirectory("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 0); !result.Passed {
		t.Fatalf("zero minimum should pass: %s", result.Detail)
	}
	result := CheckFreeSpace("space", dir, 1<<20)
	if result.Passed {
		t.Fatal("expected failure for a petabyte requirement")
	}
	if !strings.Contains(result.Detail, "need") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if result := CheckCatalog(context.Background(), cfg.Paths.CatalogPath); result.Passed {
		t.Fatal("expected failure before import")
	}

	testsupport.MustImportCatalog(t, cfg)
	result := CheckCatalog(context.Background(), cfg.Paths.CatalogPath)
	if !result.Passed {
		t.Fatalf("expected pass after import: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "4 tables") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckMusicBrainzRejectsBadDSN(t *testing.T) {
	result := CheckMusicBrainz(context.Background(), "postgres://%zz")
	if result.Passed {
		t.Fatal("expected failure for unparsable dsn")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAllReadyConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.MustImportCatalog(t, cfg)

	results := RunAll(context.Background(), cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 checks without postgres, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAllReportsMissingInputRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.MLHDRoot = filepath.Join(t.TempDir(), "missing")
	cfg.Catalog.PostgresURL = "postgres://%zz"

	results := RunAll(context.Background(), cfg)
	failed := Failed(results)
	names := make([]string, 0, len(failed))
	for _, r := range failed {
		names = append(names, r.Name)
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"Input root", "Reference catalog", "MusicBrainz database"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q among failures %v", want, names)
		}
	}
}
