// Package process applies recording resolution to whole listening tables.
package process

import (
	"time"

	"mlhdclean/internal/listens"
	"mlhdclean/internal/resolve"
)

// Options mirrors the [clean] flags that shape processing. KeepMissing and
// TurnBlank are accepted for compatibility with existing configs and do not
// change the output.
type Options struct {
	KeepMissing bool
	TurnBlank   bool
}

// Stats counts how rows were affected by resolution.
type Stats struct {
	Rows          int `json:"rows"`
	Redirected    int `json:"redirected"`
	Canonicalized int `json:"canonicalized"`
	Unmatched     int `json:"unmatched"`
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Rows += other.Rows
	s.Redirected += other.Redirected
	s.Canonicalized += other.Canonicalized
	s.Unmatched += other.Unmatched
}

// Result is a processed table plus its timing and counters.
type Result struct {
	Table   *listens.Table
	Elapsed time.Duration
	Stats   Stats
}

// Processor resolves every row of a table. It is safe for concurrent use.
type Processor struct {
	resolver *resolve.Resolver
	opts     Options
	now      func() time.Time
}

// New returns a processor that resolves rows with resolver.
func New(resolver *resolve.Resolver, opts Options) *Processor {
	return &Processor{resolver: resolver, opts: opts, now: time.Now}
}

// Process builds a new table with resolved recording ids and attached artist
// and release ids. Row count and order match the input; the input is not modified.
func (p *Processor) Process(in *listens.Table) Result {
	start := p.now()
	out := &listens.Table{Path: in.Path, Events: make([]listens.Event, len(in.Events))}
	var stats Stats
	for i, ev := range in.Events {
		res := p.resolver.Resolve(ev.RecordingID)
		out.Events[i] = listens.Event{
			Timestamp:   ev.Timestamp,
			ArtistIDs:   res.ArtistIDs,
			ReleaseID:   res.ReleaseID,
			RecordingID: res.RecordingID,
		}
		if res.Outcome.Has(resolve.OutcomeRedirected) {
			stats.Redirected++
		}
		if res.Outcome.Has(resolve.OutcomeCanonicalized) {
			stats.Canonicalized++
		}
		if !res.Outcome.Has(resolve.OutcomeCredited) {
			stats.Unmatched++
		}
	}
	stats.Rows = len(out.Events)
	return Result{Table: out, Elapsed: p.now().Sub(start), Stats: stats}
}
