package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunLogRetention describes the per-run log files kept in a log directory:
// names start with Prefix and end with one of Suffixes.
type RunLogRetention struct {
	Dir      string
	Prefix   string
	Suffixes []string
	Days     int
}

// Prune removes run logs last modified more than Days ago and returns how many
// were removed. active is never removed. Days <= 0 keeps everything. Removal
// failures are logged and do not stop the run.
func (r RunLogRetention) Prune(logger *slog.Logger, active string) int {
	if r.Days <= 0 || strings.TrimSpace(r.Dir) == "" {
		return 0
	}
	if logger == nil {
		logger = NewNop()
	}
	cutoff := time.Now().AddDate(0, 0, -r.Days)
	active = filepath.Clean(active)

	matches, err := filepath.Glob(filepath.Join(r.Dir, r.Prefix+"*"))
	if err != nil {
		return 0
	}
	removed := 0
	for _, path := range matches {
		if filepath.Clean(path) == active || !r.hasSuffix(path) {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "run log retention failed", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on paths.log_dir"),
				String(FieldImpact, "stale run log remains on disk"),
			)
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Info("old run logs pruned",
			Int("removed", removed),
			Int("retention_days", r.Days),
			String(FieldEventType, "log_pruned"),
		)
	}
	return removed
}

func (r RunLogRetention) hasSuffix(path string) bool {
	name := filepath.Base(path)
	for _, suffix := range r.Suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
