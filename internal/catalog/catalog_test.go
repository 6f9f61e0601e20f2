package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mlhdclean/internal/catalog"
	"mlhdclean/internal/testsupport"
)

func TestImportAndLoadFromDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	set := testsupport.MustImportCatalog(t, cfg)

	if !set.Known(testsupport.RecordingCurrent) {
		t.Error("expected current recording in identity set")
	}
	if set.Known(testsupport.RecordingMerged) {
		t.Error("merged recording should not be in identity set")
	}
	if got, ok := set.Redirect(testsupport.RecordingMerged); !ok || got != testsupport.RecordingCurrent {
		t.Errorf("Redirect = %q, %v", got, ok)
	}
	if got, ok := set.Canonical(testsupport.RecordingVariant); !ok || got != testsupport.RecordingCanonical {
		t.Errorf("Canonical = %q, %v", got, ok)
	}
	credit, ok := set.Credit(testsupport.RecordingCanonical)
	if !ok {
		t.Fatal("expected credit for canonical recording")
	}
	wantArtists := testsupport.ArtistTwo + "," + testsupport.ArtistThree
	if credit.ArtistIDs != wantArtists || credit.ReleaseID != testsupport.ReleaseTwo {
		t.Errorf("credit = %+v", credit)
	}

	counts := set.Counts()
	if counts[catalog.TableRecordingGID] != 3 || counts[catalog.TableCredits] != 2 {
		t.Errorf("counts = %v", counts)
	}
}

func TestLoadWithoutImportReportsMissingTables(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	_, err := store.Load(context.Background())
	if !errors.Is(err, catalog.ErrTableMissing) {
		t.Fatalf("expected ErrTableMissing, got %v", err)
	}
	for _, table := range catalog.AllTables {
		if !strings.Contains(err.Error(), string(table)) {
			t.Errorf("error should name %s: %v", table, err)
		}
	}
}

func TestImportMissingExportFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteCatalogExport(t, cfg.Catalog.SourceDir)
	if err := os.Remove(filepath.Join(cfg.Catalog.SourceDir, "recording_canonical.tsv")); err != nil {
		t.Fatal(err)
	}
	store := testsupport.MustOpenCatalog(t, cfg)

	_, err := store.Import(context.Background(), catalog.DirSource{Dir: cfg.Catalog.SourceDir}, nil)
	if !errors.Is(err, catalog.ErrTableMissing) {
		t.Fatalf("expected ErrTableMissing, got %v", err)
	}
	if err := store.CheckReady(context.Background()); !errors.Is(err, catalog.ErrTableMissing) {
		t.Fatalf("failed import must not leave partial tables, got %v", err)
	}
}

func TestImportRejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name  string
		table catalog.Table
		body  string
	}{
		{"bad gid", catalog.TableRecordingGID, "gid\nnot-an-mbid\n"},
		{"wrong header", catalog.TableRedirects, "from\tto\n"},
		{"bad artist", catalog.TableCredits, "recording_mbid\tartist_mbids\trelease_mbid\n" + testsupport.RecordingCurrent + "\t{nope}\t\n"},
		{"short row", catalog.TableCanonical, "old\tnew\n" + testsupport.RecordingVariant + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t)
			testsupport.WriteCatalogExport(t, cfg.Catalog.SourceDir)
			testsupport.WriteText(t, filepath.Join(cfg.Catalog.SourceDir, string(tt.table)+".tsv"), tt.body)
			store := testsupport.MustOpenCatalog(t, cfg)

			_, err := store.Import(context.Background(), catalog.DirSource{Dir: cfg.Catalog.SourceDir}, nil)
			if !errors.Is(err, catalog.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestImportReadsCompressedCSV(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := cfg.Catalog.SourceDir
	for table, rows := range testsupport.CatalogExport() {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			quoted := make([]string, len(row))
			for i, cell := range row {
				quoted[i] = `"` + cell + `"`
			}
			lines = append(lines, strings.Join(quoted, ","))
		}
		testsupport.WriteText(t, filepath.Join(dir, string(table)+".csv.zst"), strings.Join(lines, "\n")+"\n")
	}
	store := testsupport.MustOpenCatalog(t, cfg)

	counts, err := store.Import(context.Background(), catalog.DirSource{Dir: dir}, nil)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if counts[catalog.TableRedirects] != 1 {
		t.Errorf("redirect rows = %d", counts[catalog.TableRedirects])
	}
	imports, err := store.Imports(context.Background())
	if err != nil {
		t.Fatalf("Imports: %v", err)
	}
	if rec := imports[catalog.TableCredits]; rec.RowCount != 2 || !strings.HasPrefix(rec.Source, "dir:") {
		t.Errorf("credit import record = %+v", rec)
	}
}

func TestReimportReplacesRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.MustImportCatalog(t, cfg)
	testsupport.WriteText(t, filepath.Join(cfg.Catalog.SourceDir, "recording_redirects.tsv"), "old\tnew\n")
	store := testsupport.MustOpenCatalog(t, cfg)

	if _, err := store.Import(context.Background(), catalog.DirSource{Dir: cfg.Catalog.SourceDir}, nil); err != nil {
		t.Fatalf("Import: %v", err)
	}
	set, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := set.Redirect(testsupport.RecordingMerged); ok {
		t.Error("redirect should be gone after re-import")
	}
}

func TestNormalizeArtistIDs(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"{}":         "",
		"{a}":        "a",
		"{a,b}":      "a,b",
		" { a , b } ": "a,b",
		`{"a","b"}`:  "a,b",
		"a,b":        "a,b",
	}
	for in, want := range tests {
		if got := catalog.NormalizeArtistIDs(in); got != want {
			t.Errorf("NormalizeArtistIDs(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
	forceSchemaVersion(t, cfg.Paths.CatalogPath, 99)

	_, err := catalog.OpenPath(cfg.Paths.CatalogPath)
	if !errors.Is(err, catalog.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func forceSchemaVersion(t *testing.T, path string, version int) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec("UPDATE schema_version SET version = ?", version); err != nil {
		t.Fatalf("update schema_version: %v", err)
	}
}
