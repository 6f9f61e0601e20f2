package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Load reads every reference table into an immutable Set. A table without an
// import record yields ErrTableMissing; an invalid row yields ErrMalformed.
func (s *Store) Load(ctx context.Context) (*Set, error) {
	if err := s.CheckReady(ctx); err != nil {
		return nil, err
	}

	builder := NewBuilder()
	for _, table := range AllTables {
		err := s.scanTable(ctx, table, func(row []string) {
			switch table {
			case TableRecordingGID:
				builder.AddKnown(row[0])
			case TableRedirects:
				builder.AddRedirect(row[0], row[1])
			case TableCanonical:
				builder.AddCanonical(row[0], row[1])
			case TableCredits:
				builder.AddCredit(row[0], Credit{ArtistIDs: row[1], ReleaseID: row[2]})
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return builder.Build(), nil
}

func (s *Store) scanTable(ctx context.Context, table Table, add func([]string)) error {
	columns := table.Columns()
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	raw := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range raw {
		dest[i] = &raw[i]
	}

	rowNum := 0
	for rows.Next() {
		rowNum++
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		cells := make([]string, len(raw))
		for i, v := range raw {
			cells[i] = v.String
		}
		row, err := normalizeRow(table, rowNum, cells)
		if err != nil {
			return err
		}
		add(row)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", table, err)
	}
	return nil
}
