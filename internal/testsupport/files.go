package testsupport

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mlhdclean/internal/fileutil"
)

// WriteText writes content to path, creating parent directories. Paths ending
// in .zst are zstd-compressed.
func WriteText(t testing.TB, path, content string) {
	t.Helper()

	if err := fileutil.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteListens writes an MLHD file with one tab-separated row per entry of rows.
func WriteListens(t testing.TB, path string, rows ...[4]string) {
	t.Helper()

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row[:], "\t"))
		b.WriteByte('\n')
	}
	WriteText(t, path, b.String())
}

// ReadText returns the decompressed content of path.
func ReadText(t testing.TB, path string) string {
	t.Helper()

	rc, err := fileutil.OpenReader(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// MkdirAll creates dir or fails the test.
func MkdirAll(t testing.TB, dir string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Clean(dir), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}
