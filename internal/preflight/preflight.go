package preflight

import (
	"context"
	"strings"

	"mlhdclean/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckReadableDirectory("Input root", cfg.Paths.MLHDRoot),
		CheckDirectoryAccess("Output root", cfg.Paths.WriteRoot),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckFreeSpace("Output free space", cfg.Paths.WriteRoot, cfg.Clean.MinFreeGiB),
		CheckCatalog(ctx, cfg.Paths.CatalogPath),
	}

	if strings.TrimSpace(cfg.Catalog.PostgresURL) != "" {
		results = append(results, CheckMusicBrainz(ctx, cfg.Catalog.PostgresURL))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
