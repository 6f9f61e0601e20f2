// Package listens reads and writes MLHD listening-history files.
//
// Each file holds one user's listens as tab-separated rows of
// timestamp, artist MBIDs, release MBID and recording MBID. Empty cells are
// null. Files whose names end in .zst are zstd-compressed (the MLHD+ layout).
// The package also discovers input files under a root and maps each one to its
// mirrored output location.
package listens
