package listens

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDecodeKeepsOrderAndNulls(t *testing.T) {
	input := "1136040326\t\t\trec-1\n\n1136040400\tart-1,art-2\trel-1\t\r\n"
	table, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []Event{
		{Timestamp: "1136040326", RecordingID: "rec-1"},
		{Timestamp: "1136040400", ArtistIDs: "art-1,art-2", ReleaseID: "rel-1"},
	}
	if !reflect.DeepEqual(table.Events, want) {
		t.Fatalf("events = %+v", table.Events)
	}
}

func TestDecodeRejectsWrongColumnCount(t *testing.T) {
	_, err := Decode(strings.NewReader("1\t2\t3\n"))
	if !errors.Is(err, ErrMalformedRow) {
		t.Fatalf("expected ErrMalformedRow, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("error should name the line: %v", err)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	for _, name := range []string{"user.txt", "user.txt.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "a", name)
			table := &Table{Events: []Event{
				{Timestamp: "1", ArtistIDs: "a", ReleaseID: "r", RecordingID: "x"},
				{Timestamp: "2"},
			}}
			if err := WriteFile(path, table); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if got.Path != path || !reflect.DeepEqual(got.Events, table.Events) {
				t.Fatalf("round trip = %+v", got)
			}
			if Size(path) == 0 {
				t.Fatal("expected non-zero size")
			}
		})
	}
}

func TestDiscoverPathsFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"b/2.txt",
		"a/1.TXT.zst",
		"a/notes.md",
		".hidden/3.txt",
		"a/.4.txt.tmp",
		"c/5.tsv",
	}
	for _, f := range files {
		p := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := DiscoverPaths(context.Background(), root, []string{".txt", ".txt.zst"})
	if err != nil {
		t.Fatalf("DiscoverPaths: %v", err)
	}
	want := []string{filepath.Join(root, "a/1.TXT.zst"), filepath.Join(root, "b/2.txt")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
}

func TestDiscoverPathsMissingRoot(t *testing.T) {
	if _, err := DiscoverPaths(context.Background(), filepath.Join(t.TempDir(), "missing"), []string{".txt"}); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"mirrors nested file", "/in/ab/user.txt", "/out/ab/user.txt", false},
		{"outside root", "/elsewhere/user.txt", "", true},
		{"root itself", "/in", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputPath("/in", "/out", tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("OutputPath = %q, want %q", got, tt.want)
			}
		})
	}
}
