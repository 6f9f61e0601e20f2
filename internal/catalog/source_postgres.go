package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresQueries select each reference table from a MusicBrainz mirror with
// the mapping schema installed.
var postgresQueries = map[Table]string{
	TableRecordingGID: `SELECT gid::text FROM musicbrainz.recording`,
	TableRedirects: `
		SELECT rgr.gid::text, r.gid::text
		FROM musicbrainz.recording_gid_redirect rgr
		JOIN musicbrainz.recording r ON r.id = rgr.new_id`,
	TableCanonical: `
		SELECT recording_mbid::text, canonical_recording_mbid::text
		FROM mapping.canonical_recording_redirect`,
	TableCredits: `
		SELECT recording_mbid::text, artist_mbids::text, COALESCE(release_mbid::text, '')
		FROM mapping.canonical_musicbrainz_data`,
}

// PostgresSource streams reference tables from a MusicBrainz Postgres database.
type PostgresSource struct {
	pool *pgxpool.Pool
	host string
}

// OpenPostgres connects to the MusicBrainz database at dsn and verifies it is reachable.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresSource, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("musicbrainz dsn is empty (set catalog.postgres_url or MB_DATABASE_URL)")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse musicbrainz dsn: %w", err)
	}
	cfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create musicbrainz pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping musicbrainz database: %w", err)
	}
	return &PostgresSource{pool: pool, host: cfg.ConnConfig.Host}, nil
}

func (p *PostgresSource) Describe() string {
	return "postgres:" + p.host
}

func (p *PostgresSource) Rows(ctx context.Context, table Table, emit func([]string) error) error {
	query, ok := postgresQueries[table]
	if !ok {
		return fmt.Errorf("%w: no query for %s", ErrTableMissing, table)
	}
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	width := len(table.Columns())
	cells := make([]string, width)
	dest := make([]any, width)
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		if err := emit(cells); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", table, err)
	}
	return nil
}

// Close releases the connection pool.
func (p *PostgresSource) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}
