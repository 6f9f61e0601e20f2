package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mlhdclean/internal/config"
	"mlhdclean/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"MLHD_ROOT", "WRITE_ROOT", "LOG_WRITE_ROOT", "MB_DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Format = "json"

	configPath := filepath.Join(homeDir, ".config", "mlhdclean", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeListenFiles writes n fixture MLHD files under the input root and
// returns their paths.
func writeListenFiles(t *testing.T, cfg *config.Config, n int) []string {
	t.Helper()
	paths := make([]string, 0, n)
	for i := range n {
		path := filepath.Join(cfg.Paths.MLHDRoot, "part", "user-"+string(rune('a'+i))+".txt")
		testsupport.WriteListens(t, path,
			[4]string{"1136040326", "", "", testsupport.RecordingMerged},
			[4]string{"1136040400", "", "", testsupport.RecordingVariant},
		)
		paths = append(paths, path)
	}
	return paths
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
