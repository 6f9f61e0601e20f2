package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mlhdclean/internal/logging"
)

// Source streams reference table rows from an external system.
type Source interface {
	// Describe names the source for import records.
	Describe() string
	// Rows calls emit once per row of table, in any order.
	Rows(ctx context.Context, table Table, emit func(row []string) error) error
}

// Import replaces every reference table with the rows from src inside a single
// transaction. Either all four tables are replaced or none are.
func (s *Store) Import(ctx context.Context, src Source, logger *slog.Logger) (map[Table]int64, error) {
	if src == nil {
		return nil, fmt.Errorf("catalog import: source is nil")
	}
	logger = logging.NewComponentLogger(logger, "catalog")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	counts := make(map[Table]int64, len(AllTables))
	for _, table := range AllTables {
		started := time.Now()
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+string(table)); err != nil {
			return nil, fmt.Errorf("clear %s: %w", table, err)
		}

		columns := table.Columns()
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
			"INSERT OR REPLACE INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders))
		if err != nil {
			return nil, fmt.Errorf("prepare %s insert: %w", table, err)
		}

		var rowNum int64
		emitErr := src.Rows(ctx, table, func(row []string) error {
			rowNum++
			normalized, err := normalizeRow(table, int(rowNum), row)
			if err != nil {
				return err
			}
			args := make([]any, len(normalized))
			for i, v := range normalized {
				args[i] = v
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("insert %s row %d: %w", table, rowNum, err)
			}
			return nil
		})
		_ = stmt.Close()
		if emitErr != nil {
			return nil, fmt.Errorf("import %s from %s: %w", table, src.Describe(), emitErr)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO catalog_imports (table_name, source, row_count, imported_at) VALUES (?, ?, ?, ?)
             ON CONFLICT(table_name) DO UPDATE SET source = excluded.source, row_count = excluded.row_count, imported_at = excluded.imported_at`,
			string(table), src.Describe(), rowNum, time.Now().UTC().Format(time.RFC3339Nano),
		); err != nil {
			return nil, fmt.Errorf("record %s import: %w", table, err)
		}
		counts[table] = rowNum
		logger.Info("reference table imported",
			logging.String("table", string(table)),
			logging.Int64("imported_rows", rowNum),
			logging.Duration("import_elapsed", time.Since(started)),
			logging.String(logging.FieldEventType, "catalog_table_imported"),
		)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return counts, nil
}
