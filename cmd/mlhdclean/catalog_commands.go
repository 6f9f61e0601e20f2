package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mlhdclean/internal/catalog"
	"mlhdclean/internal/logging"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the MusicBrainz reference tables",
	}

	catalogCmd.AddCommand(newCatalogImportCommand(ctx))
	catalogCmd.AddCommand(newCatalogStatsCommand(ctx))

	return catalogCmd
}

func newCatalogImportCommand(ctx *commandContext) *cobra.Command {
	var fromDir string
	var fromPostgres bool
	var dsn string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the reference tables from an export directory or a MusicBrainz database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if fromPostgres && strings.TrimSpace(fromDir) != "" {
				return errors.New("--from-dir and --from-postgres are mutually exclusive")
			}

			logger, err := logging.NewFromConfig(cfg, "", "")
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			var src catalog.Source
			if fromPostgres {
				url := strings.TrimSpace(dsn)
				if url == "" {
					url = cfg.Catalog.PostgresURL
				}
				if url == "" {
					return errors.New("no database URL: pass --dsn, set catalog.postgres_url, or export MB_DATABASE_URL")
				}
				pg, err := catalog.OpenPostgres(cmd.Context(), url)
				if err != nil {
					return err
				}
				defer pg.Close()
				src = pg
			} else {
				dir := strings.TrimSpace(fromDir)
				if dir == "" {
					dir = cfg.Catalog.SourceDir
				}
				if dir == "" {
					return errors.New("no export directory: pass --from-dir or set catalog.source_dir")
				}
				src = catalog.DirSource{Dir: dir}
			}

			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			started := time.Now()
			counts, err := store.Import(cmd.Context(), src, logger)
			if err != nil {
				return fmt.Errorf("import from %s: %w", src.Describe(), err)
			}

			rows := make([][]string, 0, len(catalog.AllTables))
			var total int64
			for _, table := range catalog.AllTables {
				total += counts[table]
				rows = append(rows, []string{string(table), humanize.Comma(counts[table])})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Table", "Rows"}, rows, []columnAlignment{alignLeft, alignRight}))
			fmt.Fprintf(out, "Imported %s rows from %s into %s in %s\n",
				humanize.Comma(total), src.Describe(), store.Path(), time.Since(started).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromDir, "from-dir", "", "Directory holding the four table exports (defaults to catalog.source_dir)")
	cmd.Flags().BoolVar(&fromPostgres, "from-postgres", false, "Read the tables from a MusicBrainz database")
	cmd.Flags().StringVar(&dsn, "dsn", "", "MusicBrainz database URL (defaults to catalog.postgres_url)")
	return cmd
}

type catalogTableStat struct {
	Table      string    `json:"table"`
	Rows       int64     `json:"rows"`
	Source     string    `json:"source,omitempty"`
	ImportedAt time.Time `json:"imported_at,omitzero"`
	Imported   bool      `json:"imported"`
}

func newCatalogStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show row counts and import provenance of the reference tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			imports, err := store.Imports(cmd.Context())
			if err != nil {
				return err
			}

			stats := make([]catalogTableStat, 0, len(catalog.AllTables))
			for _, table := range catalog.AllTables {
				stat := catalogTableStat{Table: string(table)}
				if rec, ok := imports[table]; ok {
					stat.Rows = rec.RowCount
					stat.Source = rec.Source
					stat.ImportedAt = rec.ImportedAt
					stat.Imported = true
				}
				stats = append(stats, stat)
			}

			if jsonOutput {
				return writeJSON(cmd, stats)
			}

			printer := message.NewPrinter(language.English)
			rows := make([][]string, 0, len(stats))
			for _, stat := range stats {
				imported := "never"
				if stat.Imported {
					imported = humanize.Time(stat.ImportedAt)
				}
				rows = append(rows, []string{
					stat.Table,
					printer.Sprintf("%d", stat.Rows),
					stat.Source,
					imported,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Table", "Rows", "Source", "Imported"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "Catalog: %s\n", store.Path())
			if err := store.CheckReady(cmd.Context()); err != nil {
				fmt.Fprintf(out, "Not ready: %v\n", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
