package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTableMissing indicates a reference table has not been imported.
	ErrTableMissing = errors.New("reference table missing")
	// ErrMalformed indicates a reference table row could not be parsed.
	ErrMalformed = errors.New("reference table malformed")
)

// Table names one of the four reference tables.
type Table string

const (
	TableRecordingGID Table = "recording_gid"
	TableRedirects    Table = "recording_redirects"
	TableCanonical    Table = "recording_canonical"
	TableCredits      Table = "artist_credit_release_gid"
)

// AllTables lists every reference table in import order.
var AllTables = []Table{TableRecordingGID, TableRedirects, TableCanonical, TableCredits}

// Columns returns the header names expected for the table.
func (t Table) Columns() []string {
	switch t {
	case TableRecordingGID:
		return []string{"gid"}
	case TableRedirects, TableCanonical:
		return []string{"old", "new"}
	case TableCredits:
		return []string{"recording_mbid", "artist_mbids", "release_mbid"}
	default:
		return nil
	}
}

// Credit is the artist/release pair attached to a recording. ArtistIDs holds a
// comma-separated MBID list with array braces removed. Empty strings are null.
type Credit struct {
	ArtistIDs string
	ReleaseID string
}

// Lookup is the read-only view of the reference tables used during cleaning.
type Lookup interface {
	// Known reports whether id is a current recording MBID.
	Known(id string) bool
	// Redirect returns the target of a merged recording MBID.
	Redirect(id string) (string, bool)
	// Canonical returns the canonical recording for id.
	Canonical(id string) (string, bool)
	// Credit returns the artist and release MBIDs for a recording.
	Credit(id string) (Credit, bool)
}

// Set is an immutable in-memory snapshot of the reference tables.
type Set struct {
	known     map[string]struct{}
	redirects map[string]string
	canonical map[string]string
	credits   map[string]Credit
}

var _ Lookup = (*Set)(nil)

func (s *Set) Known(id string) bool {
	_, ok := s.known[Key(id)]
	return ok
}

func (s *Set) Redirect(id string) (string, bool) {
	v, ok := s.redirects[Key(id)]
	return v, ok
}

func (s *Set) Canonical(id string) (string, bool) {
	v, ok := s.canonical[Key(id)]
	return v, ok
}

func (s *Set) Credit(id string) (Credit, bool) {
	v, ok := s.credits[Key(id)]
	return v, ok
}

// Key is the lookup form of an MBID, trimmed and lower-cased. Stored keys and
// queries are both folded to it.
func Key(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Counts reports the number of entries per table.
func (s *Set) Counts() map[Table]int {
	return map[Table]int{
		TableRecordingGID: len(s.known),
		TableRedirects:    len(s.redirects),
		TableCanonical:    len(s.canonical),
		TableCredits:      len(s.credits),
	}
}

// Builder assembles a Set. It is not safe for concurrent use.
type Builder struct {
	set *Set
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{set: &Set{
		known:     make(map[string]struct{}),
		redirects: make(map[string]string),
		canonical: make(map[string]string),
		credits:   make(map[string]Credit),
	}}
}

func (b *Builder) AddKnown(ids ...string) *Builder {
	for _, id := range ids {
		b.set.known[Key(id)] = struct{}{}
	}
	return b
}

func (b *Builder) AddRedirect(old, target string) *Builder {
	b.set.redirects[Key(old)] = target
	return b
}

func (b *Builder) AddCanonical(old, target string) *Builder {
	b.set.canonical[Key(old)] = target
	return b
}

func (b *Builder) AddCredit(recording string, credit Credit) *Builder {
	b.set.credits[Key(recording)] = credit
	return b
}

// Build returns the assembled set. The builder must not be used afterwards.
func (b *Builder) Build() *Set {
	set := b.set
	b.set = nil
	return set
}

func malformed(table Table, row int, format string, args ...any) error {
	return fmt.Errorf("%w: %s row %d: %s", ErrMalformed, table, row, fmt.Sprintf(format, args...))
}
