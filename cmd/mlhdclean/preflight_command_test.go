package main

import (
	"encoding/json"
	"testing"

	"mlhdclean/internal/preflight"
	"mlhdclean/internal/testsupport"
)

func TestPreflightCommandPasses(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.MustImportCatalog(t, env.cfg)

	out, _, err := runCLI(t, []string{"preflight"}, env.configPath)
	if err != nil {
		t.Fatalf("preflight: %v\n%s", err, out)
	}
	requireContains(t, out, "Preflight: 5/5 checks passed")
	requireContains(t, out, "PASS  Reference catalog")
}

func TestPreflightCommandReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"preflight", "--json"}, env.configPath)
	if err == nil {
		t.Fatal("expected failure without catalog")
	}
	var results []preflight.Result
	if decodeErr := json.Unmarshal([]byte(out), &results); decodeErr != nil {
		t.Fatalf("decode: %v\n%s", decodeErr, out)
	}
	failed := preflight.Failed(results)
	if len(failed) != 1 || failed[0].Name != "Reference catalog" {
		t.Fatalf("failed = %+v", failed)
	}
}
