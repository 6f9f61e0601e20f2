package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mlhdclean/internal/fileutil"
)

var dirSourceExtensions = []string{".tsv", ".tsv.zst", ".csv", ".csv.zst"}

// DirSource reads reference tables exported as delimited files named after
// the table (recording_gid.tsv, recording_redirects.csv, ...). Files must
// start with a header row naming the table's columns.
type DirSource struct {
	Dir string
}

func (d DirSource) Describe() string {
	return "dir:" + d.Dir
}

// Locate returns the file backing table, or ErrTableMissing.
func (d DirSource) Locate(table Table) (string, error) {
	for _, ext := range dirSourceExtensions {
		candidate := filepath.Join(d.Dir, string(table)+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no %s export in %s", ErrTableMissing, table, d.Dir)
}

func (d DirSource) Rows(ctx context.Context, table Table, emit func([]string) error) error {
	path, err := d.Locate(table)
	if err != nil {
		return err
	}
	rc, err := fileutil.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = len(table.Columns())
	if strings.Contains(filepath.Base(path), ".tsv") {
		reader.Comma = '\t'
		reader.LazyQuotes = true
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s is empty", ErrMalformed, path)
	}
	if err != nil {
		return fmt.Errorf("%w: %s header: %v", ErrMalformed, path, err)
	}
	if err := checkHeader(table, header); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s line %d: %v", ErrMalformed, path, line, err)
		}
		if err := emit(record); err != nil {
			return err
		}
	}
}

func checkHeader(table Table, header []string) error {
	want := table.Columns()
	if len(header) != len(want) {
		return fmt.Errorf("%w: header has %d columns, want %s", ErrMalformed, len(header), strings.Join(want, ","))
	}
	for i, name := range want {
		got := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
		if got != name {
			return fmt.Errorf("%w: header column %d is %q, want %q", ErrMalformed, i+1, header[i], name)
		}
	}
	return nil
}
