package listens

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mlhdclean/internal/fileutil"
)

// ErrMalformedRow indicates a row that does not have exactly four columns.
var ErrMalformedRow = errors.New("malformed listen row")

const columnCount = 4

// Event is one listen. Empty id fields are null.
type Event struct {
	Timestamp   string
	ArtistIDs   string
	ReleaseID   string
	RecordingID string
}

// Table is the ordered list of listens from a single file.
type Table struct {
	Path   string
	Events []Event
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Events)
}

// ReadFile parses the MLHD file at path. Blank lines are skipped.
func ReadFile(path string) (*Table, error) {
	rc, err := fileutil.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open listens %s: %w", path, err)
	}
	defer rc.Close()

	table, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("read listens %s: %w", path, err)
	}
	table.Path = path
	return table, nil
}

// Decode parses MLHD rows from r.
func Decode(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	table := &Table{}
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		cells := strings.Split(text, "\t")
		if len(cells) != columnCount {
			return nil, fmt.Errorf("%w: line %d has %d columns, want %d", ErrMalformedRow, line, len(cells), columnCount)
		}
		table.Events = append(table.Events, Event{
			Timestamp:   cells[0],
			ArtistIDs:   cells[1],
			ReleaseID:   cells[2],
			RecordingID: cells[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// Encode writes the table rows to w in MLHD column order.
func Encode(w io.Writer, table *Table) error {
	bw := bufio.NewWriter(w)
	for _, ev := range table.Events {
		for i, cell := range [columnCount]string{ev.Timestamp, ev.ArtistIDs, ev.ReleaseID, ev.RecordingID} {
			if i > 0 {
				if err := bw.WriteByte('\t'); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(cell); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile atomically writes table to path, compressing when path ends in .zst.
func WriteFile(path string, table *Table) error {
	if table == nil {
		return fmt.Errorf("write listens %s: table is nil", path)
	}
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, table)
	})
	if err != nil {
		return fmt.Errorf("write listens %s: %w", path, err)
	}
	return nil
}

// Size returns the on-disk size of path, or 0 when it cannot be read.
func Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
