package catalog

import (
	"strings"

	"github.com/google/uuid"
)

// ValidMBID reports whether value is a canonical hyphenated MBID.
func ValidMBID(value string) bool {
	if len(value) != 36 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

// NormalizeArtistIDs strips Postgres array braces and whitespace from an
// artist MBID list: "{a, b}" becomes "a,b".
func NormalizeArtistIDs(raw string) string {
	trimmed := strings.Trim(strings.TrimSpace(raw), "{}")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, ",")
	out := parts[:0]
	for _, part := range parts {
		part = strings.Trim(strings.TrimSpace(part), `"`)
		if part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, ",")
}

// normalizeRow canonicalizes and validates one row of the given table.
func normalizeRow(table Table, rowNum int, row []string) ([]string, error) {
	want := len(table.Columns())
	if len(row) != want {
		return nil, malformed(table, rowNum, "expected %d columns, got %d", want, len(row))
	}
	out := make([]string, want)
	for i, cell := range row {
		out[i] = Key(cell)
	}

	switch table {
	case TableRecordingGID:
		if !ValidMBID(out[0]) {
			return nil, malformed(table, rowNum, "invalid gid %q", row[0])
		}
	case TableRedirects, TableCanonical:
		for i, name := range []string{"old", "new"} {
			if !ValidMBID(out[i]) {
				return nil, malformed(table, rowNum, "invalid %s %q", name, row[i])
			}
		}
	case TableCredits:
		if !ValidMBID(out[0]) {
			return nil, malformed(table, rowNum, "invalid recording_mbid %q", row[0])
		}
		out[1] = NormalizeArtistIDs(out[1])
		if out[1] != "" {
			for _, id := range strings.Split(out[1], ",") {
				if !ValidMBID(id) {
					return nil, malformed(table, rowNum, "invalid artist mbid %q", id)
				}
			}
		}
		if out[2] != "" && !ValidMBID(out[2]) {
			return nil, malformed(table, rowNum, "invalid release_mbid %q", row[2])
		}
	}
	return out, nil
}
