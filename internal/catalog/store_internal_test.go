package catalog

import (
	"context"
	"testing"
)

func TestBuilderSetIsIndependentOfBuilder(t *testing.T) {
	b := NewBuilder().AddKnown("A1").AddRedirect("R1", "A1")
	set := b.Build()
	if !set.Known("A1") {
		t.Fatal("expected A1 known")
	}
	if b.set != nil {
		t.Fatal("builder should release its set after Build")
	}
}

func TestStoreSchemaVersionRecorded(t *testing.T) {
	store, err := OpenPath(t.TempDir() + "/c.db")
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer store.Close()
	var version int
	if err := store.db.QueryRowContext(context.Background(), "SELECT version FROM schema_version").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != schemaVersion {
		t.Fatalf("version = %d", version)
	}
}
