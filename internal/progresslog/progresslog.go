// Package progresslog records per-file timings of a cleaning run as JSON.
//
// Entries are keyed by output path and flushed periodically to the run log;
// at the end of a run a master log with overall timings is written next to it
// as <name>_master.json.
package progresslog

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"mlhdclean/internal/fileutil"
	"mlhdclean/internal/process"
)

// Entry is the log record for one written output file.
type Entry struct {
	Input          string        `json:"input"`
	Batch          int           `json:"batch"`
	LoadSeconds    float64       `json:"load_seconds"`
	ProcessSeconds float64       `json:"process_seconds"`
	WriteSeconds   float64       `json:"write_seconds"`
	Stats          process.Stats `json:"stats"`
	LoggedAt       time.Time     `json:"logged_at"`
}

// Master summarizes a finished run.
type Master struct {
	MasterTime  float64       `json:"master_time"`
	ProcessTime float64       `json:"process_time"`
	LogPath     string        `json:"log_path"`
	RunID       string        `json:"run_id"`
	Files       int           `json:"files"`
	Batches     int           `json:"batches"`
	Stats       process.Stats `json:"stats"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
}

// Log accumulates entries for a run. It is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
}

// New returns an empty log that flushes to path.
func New(path string) *Log {
	return &Log{path: path, entries: make(map[string]Entry)}
}

// Path returns the run log location.
func (l *Log) Path() string {
	return l.path
}

// MasterPath returns the master log location derived from the run log path.
func (l *Log) MasterPath() string {
	return MasterPath(l.path)
}

// MasterPath derives <name>_master.json from a run log path.
func MasterPath(logPath string) string {
	return strings.TrimSuffix(logPath, ".json") + "_master.json"
}

// Record stores the entry for output, replacing any earlier entry for it.
func (l *Log) Record(output string, entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[output] = entry
}

// Len returns the number of recorded outputs.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy of the recorded entries.
func (l *Log) Entries() map[string]Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]Entry, len(l.entries))
	for k, v := range l.entries {
		out[k] = v
	}
	return out
}

// Flush writes all entries recorded so far to the run log, replacing its contents.
func (l *Log) Flush() error {
	l.mu.Lock()
	data, err := json.MarshalIndent(l.entries, "", "  ")
	l.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode progress log: %w", err)
	}
	if err := fileutil.WriteFileAtomic(l.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write progress log: %w", err)
	}
	return nil
}

// WriteMaster writes the master summary next to the run log.
func (l *Log) WriteMaster(m Master) error {
	if m.LogPath == "" {
		m.LogPath = l.path
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode master log: %w", err)
	}
	if err := fileutil.WriteFileAtomic(l.MasterPath(), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write master log: %w", err)
	}
	return nil
}

// Seconds converts d to seconds rounded to hundredths.
func Seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
