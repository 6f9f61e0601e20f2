// Package catalog owns the MusicBrainz reference tables used to clean
// listening histories.
//
// Tables are imported once into a local SQLite warehouse (from exported TSV/CSV
// files or straight from a MusicBrainz Postgres mirror) and loaded into an
// immutable in-memory Tables value at startup. Tables implements Lookup, the
// read-only interface the resolver depends on, so it can be shared across
// goroutines without locking.
//
// A table that was never imported surfaces as ErrTableMissing; rows whose
// identifiers are not MBIDs surface as ErrMalformed. Both are fatal for a run.
package catalog
