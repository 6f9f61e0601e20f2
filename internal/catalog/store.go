package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mlhdclean/internal/config"
)

// Store is the SQLite warehouse holding imported reference tables.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the warehouse configured at paths.catalog_path, creating it if needed.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("catalog: config is nil")
	}
	return OpenPath(cfg.Paths.CatalogPath)
}

// OpenPath opens or creates the warehouse at path.
func OpenPath(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("catalog: path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the warehouse file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ImportRecord describes the last import of one table.
type ImportRecord struct {
	Table      Table
	Source     string
	RowCount   int64
	ImportedAt time.Time
}

// Imports returns the recorded import per table. Tables never imported are absent.
func (s *Store) Imports(ctx context.Context) (map[Table]ImportRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT table_name, source, row_count, imported_at FROM catalog_imports`)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	out := make(map[Table]ImportRecord)
	for rows.Next() {
		var (
			rec     ImportRecord
			name    string
			rawTime string
		)
		if err := rows.Scan(&name, &rec.Source, &rec.RowCount, &rawTime); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		rec.Table = Table(name)
		if ts, err := time.Parse(time.RFC3339Nano, rawTime); err == nil {
			rec.ImportedAt = ts
		}
		out[rec.Table] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate imports: %w", err)
	}
	return out, nil
}

// CheckReady returns ErrTableMissing naming every table that has not been imported.
func (s *Store) CheckReady(ctx context.Context) error {
	imports, err := s.Imports(ctx)
	if err != nil {
		return err
	}
	var missing []string
	for _, table := range AllTables {
		if _, ok := imports[table]; !ok {
			missing = append(missing, string(table))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s (run 'mlhdclean catalog import')", ErrTableMissing, strings.Join(missing, ", "))
	}
	return nil
}
