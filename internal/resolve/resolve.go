// Package resolve maps raw recording MBIDs from listening histories onto
// current canonical recordings and attaches artist and release credits.
//
// Resolution is three independent steps applied in order: Redirect, Canonical
// and Credit. Misses never fail; an unknown id passes through unchanged and
// yields an empty (null) credit.
package resolve

import "mlhdclean/internal/catalog"

// Outcome flags which steps changed the identifier.
type Outcome uint8

const (
	OutcomeRedirected Outcome = 1 << iota
	OutcomeCanonicalized
	OutcomeCredited
)

// Resolution is the result of resolving one recording id.
type Resolution struct {
	RecordingID string
	ArtistIDs   string
	ReleaseID   string
	Outcome     Outcome
}

// Has reports whether flag is set on the outcome.
func (o Outcome) Has(flag Outcome) bool {
	return o&flag != 0
}

// Redirect replaces id with its redirect target when id is not a current
// recording and a redirect exists. Otherwise id is returned unchanged.
func Redirect(tables catalog.Lookup, id string) (string, bool) {
	if id == "" || tables.Known(id) {
		return id, false
	}
	if target, ok := tables.Redirect(id); ok {
		return target, true
	}
	return id, false
}

// Canonical replaces id with its canonical recording when one exists.
func Canonical(tables catalog.Lookup, id string) (string, bool) {
	if id == "" {
		return id, false
	}
	if target, ok := tables.Canonical(id); ok {
		return target, true
	}
	return id, false
}

// Credit returns the artist and release ids for id, or empty strings on a miss.
func Credit(tables catalog.Lookup, id string) (catalog.Credit, bool) {
	if id == "" {
		return catalog.Credit{}, false
	}
	return tables.Credit(id)
}

// Resolver applies the resolution steps against a fixed set of reference tables.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	tables catalog.Lookup
}

// New returns a resolver backed by tables.
func New(tables catalog.Lookup) *Resolver {
	return &Resolver{tables: tables}
}

// Resolve runs Redirect, Canonical and Credit on id.
func (r *Resolver) Resolve(id string) Resolution {
	var res Resolution
	current, redirected := Redirect(r.tables, id)
	if redirected {
		res.Outcome |= OutcomeRedirected
	}
	current, canonicalized := Canonical(r.tables, current)
	if canonicalized {
		res.Outcome |= OutcomeCanonicalized
	}
	credit, credited := Credit(r.tables, current)
	if credited {
		res.Outcome |= OutcomeCredited
	}
	res.RecordingID = current
	res.ArtistIDs = credit.ArtistIDs
	res.ReleaseID = credit.ReleaseID
	return res
}
