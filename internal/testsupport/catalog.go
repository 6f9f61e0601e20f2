package testsupport

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"mlhdclean/internal/catalog"
	"mlhdclean/internal/config"
)

// Fixture MBIDs used by the reference table export written by WriteCatalogExport.
const (
	// RecordingCurrent is a valid recording with a credit.
	RecordingCurrent = "0f42ab32-22cd-4dcf-927b-a8d9a183d68b"
	// RecordingMerged was merged into RecordingCurrent.
	RecordingMerged = "6a0b5b5e-2c3e-4a8a-9b0f-9e2f0e7d3c11"
	// RecordingVariant is valid but canonicalizes to RecordingCanonical.
	RecordingVariant = "a3c5e1f0-5d6b-4f27-8c2e-2f1b0e9d7a44"
	// RecordingCanonical is the canonical recording for RecordingVariant.
	RecordingCanonical = "c9d8e7f6-1a2b-4c3d-9e8f-7a6b5c4d3e22"
	// RecordingUnknown appears in no table.
	RecordingUnknown = "ffffffff-0000-4000-8000-000000000000"

	ArtistOne   = "8bfac288-ccc5-448d-9573-c33ea2aa5c30"
	ArtistTwo   = "7a2d5e9b-3c4f-4e1a-8b6d-5f0c9e8a7b33"
	ArtistThree = "2f9ecbed-27be-40e6-abca-6de49d50299e"
	ReleaseOne  = "1e2f3a4b-5c6d-4e7f-8a9b-0c1d2e3f4a55"
	ReleaseTwo  = "9f8e7d6c-5b4a-4392-8170-6f5e4d3c2b66"
)

// CatalogExport returns the fixture rows keyed by table, header first.
func CatalogExport() map[catalog.Table][][]string {
	return map[catalog.Table][][]string{
		catalog.TableRecordingGID: {
			{"gid"},
			{RecordingCurrent},
			{RecordingVariant},
			{RecordingCanonical},
		},
		catalog.TableRedirects: {
			{"old", "new"},
			{RecordingMerged, RecordingCurrent},
		},
		catalog.TableCanonical: {
			{"old", "new"},
			{RecordingVariant, RecordingCanonical},
		},
		catalog.TableCredits: {
			{"recording_mbid", "artist_mbids", "release_mbid"},
			{RecordingCurrent, "{" + ArtistOne + "}", ReleaseOne},
			{RecordingCanonical, "{" + ArtistTwo + "," + ArtistThree + "}", ReleaseTwo},
		},
	}
}

// WriteCatalogExport writes the fixture tables as TSV files into dir.
func WriteCatalogExport(t testing.TB, dir string) {
	t.Helper()
	for table, rows := range CatalogExport() {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, strings.Join(row, "\t"))
		}
		WriteText(t, filepath.Join(dir, string(table)+".tsv"), strings.Join(lines, "\n")+"\n")
	}
}

// MustImportCatalog writes the fixture export to catalog.source_dir, imports it
// into the configured warehouse and returns the loaded set.
func MustImportCatalog(t testing.TB, cfg *config.Config) *catalog.Set {
	t.Helper()

	WriteCatalogExport(t, cfg.Catalog.SourceDir)
	store := MustOpenCatalog(t, cfg)
	ctx := context.Background()
	if _, err := store.Import(ctx, catalog.DirSource{Dir: cfg.Catalog.SourceDir}, nil); err != nil {
		t.Fatalf("catalog import: %v", err)
	}
	set, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("catalog load: %v", err)
	}
	return set
}

// MustOpenCatalog opens the configured catalog store and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
