package driver

import (
	"fmt"
	"reflect"
	"testing"
)

func TestChunkPartitionsWithoutLossOrDuplication(t *testing.T) {
	for n := 0; n <= 12; n++ {
		paths := make([]string, n)
		for i := range paths {
			paths[i] = fmt.Sprintf("f%02d", i)
		}
		for size := -1; size <= 13; size++ {
			batches := Chunk(paths, size)
			var flat []string
			for bi, b := range batches {
				if len(b) == 0 {
					t.Fatalf("n=%d size=%d: empty batch %d", n, size, bi)
				}
				if size > 0 && len(b) > size {
					t.Fatalf("n=%d size=%d: batch %d has %d entries", n, size, bi, len(b))
				}
				if size > 0 && bi < len(batches)-1 && len(b) != size {
					t.Fatalf("n=%d size=%d: only the last batch may be short", n, size)
				}
				flat = append(flat, b...)
			}
			if n == 0 {
				if len(flat) != 0 {
					t.Fatalf("expected no batches for empty input")
				}
				continue
			}
			if !reflect.DeepEqual(flat, paths) {
				t.Fatalf("n=%d size=%d: concatenation %v != %v", n, size, flat, paths)
			}
		}
	}
}

func TestChunkBatchesDoNotAlias(t *testing.T) {
	paths := []string{"a", "b", "c"}
	batches := Chunk(paths, 2)
	batches[0] = append(batches[0], "x")
	if paths[2] != "c" {
		t.Fatal("appending to a batch must not clobber the next batch")
	}
}

func TestCrossedEpoch(t *testing.T) {
	tests := []struct {
		before, after, epoch int
		want                 bool
	}{
		{0, 5, 5, true},
		{0, 4, 5, false},
		{4, 9, 5, true},
		{5, 9, 5, false},
		{3, 13, 5, true},
		{0, 10, 0, false},
	}
	for _, tt := range tests {
		if got := crossedEpoch(tt.before, tt.after, tt.epoch); got != tt.want {
			t.Errorf("crossedEpoch(%d,%d,%d) = %v", tt.before, tt.after, tt.epoch, got)
		}
	}
}

func TestDedupe(t *testing.T) {
	out, dropped := dedupe([]string{"a", "b", "a", "c", "b"})
	if !reflect.DeepEqual(out, []string{"a", "b", "c"}) || dropped != 2 {
		t.Fatalf("dedupe = %v, %d", out, dropped)
	}
}
