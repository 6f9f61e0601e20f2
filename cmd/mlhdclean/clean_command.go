package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"mlhdclean/internal/catalog"
	"mlhdclean/internal/config"
	"mlhdclean/internal/driver"
	"mlhdclean/internal/listens"
	"mlhdclean/internal/logging"
	"mlhdclean/internal/preflight"
	"mlhdclean/internal/process"
	"mlhdclean/internal/progresslog"
	"mlhdclean/internal/resolve"
	"mlhdclean/internal/runlock"
)

const (
	cleanLogPrefix      = "clean-"
	cleanLogSuffix      = ".log"
	diagnosticLogSuffix = ".diag.jsonl"
)

type cleanFlags struct {
	limit      int
	workers    int
	chunkSize  int
	logEpoch   int
	progress   bool
	diagnostic bool
}

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var flags cleanFlags

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Resolve recording MBIDs across every MLHD file and write cleaned copies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			applyCleanFlags(cmd, cfg, flags)
			return runClean(cmd, cfg, flags)
		},
	}

	cmd.Flags().IntVar(&flags.limit, "limit", 0, "Clean only the first N discovered files (0 means all)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Files processed concurrently within a chunk (overrides clean.max_workers)")
	cmd.Flags().IntVar(&flags.chunkSize, "chunk-size", 0, "Files per chunk (overrides clean.chunk_size)")
	cmd.Flags().IntVar(&flags.logEpoch, "log-epoch", 0, "Flush the progress log every N files (overrides clean.log_epoch)")
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "Render a progress bar on stderr")
	cmd.Flags().BoolVar(&flags.diagnostic, "diagnostic", false, "Write a debug-level JSON log next to the run log")
	return cmd
}

func applyCleanFlags(cmd *cobra.Command, cfg *config.Config, flags cleanFlags) {
	if cmd.Flags().Changed("limit") && flags.limit >= 0 {
		cfg.Clean.Limit = flags.limit
	}
	if cmd.Flags().Changed("workers") && flags.workers > 0 {
		cfg.Clean.MaxWorkers = flags.workers
	}
	if cmd.Flags().Changed("chunk-size") && flags.chunkSize > 0 {
		cfg.Clean.ChunkSize = flags.chunkSize
	}
	if cmd.Flags().Changed("log-epoch") && flags.logEpoch >= 0 {
		cfg.Clean.LogEpoch = flags.logEpoch
	}
}

func runClean(cmd *cobra.Command, cfg *config.Config, flags cleanFlags) (err error) {
	started := time.Now()
	runCtx := cmd.Context()

	results := preflight.RunAll(runCtx, cfg)
	if failed := preflight.Failed(results); len(failed) > 0 {
		return preflightError(failed)
	}

	lock, err := runlock.Acquire(cfg.Paths.WriteRoot)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()

	runID := uuid.NewString()
	logPath := filepath.Join(cfg.Paths.LogDir, cleanLogPrefix+started.UTC().Format("20060102T150405Z")+cleanLogSuffix)
	logger, err := logging.NewFromConfig(cfg, logPath, runID)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if flags.diagnostic {
		var diag *logging.DiagnosticLog
		logger, diag, err = logging.WithDiagnostics(logger, strings.TrimSuffix(logPath, cleanLogSuffix)+diagnosticLogSuffix)
		if err != nil {
			return fmt.Errorf("open diagnostic log: %w", err)
		}
		defer diag.Close()
		logger.Info("diagnostic log enabled", logging.String("diagnostic_log", diag.Path()))
	}
	logger = logging.NewComponentLogger(logger, "clean")

	retention := logging.RunLogRetention{
		Dir:      cfg.Paths.LogDir,
		Prefix:   cleanLogPrefix,
		Suffixes: []string{cleanLogSuffix, diagnosticLogSuffix},
		Days:     cfg.Logging.RetentionDays,
	}
	retention.Prune(logger, logPath)
	warnIgnoredSettings(logger, cfg)

	tables, err := loadCatalog(cmd, cfg, logger)
	if err != nil {
		logging.ErrorWithContext(logger, "reference tables unavailable", "catalog_load_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run `mlhdclean catalog import` first"),
			logging.String(logging.FieldImpact, "no files were cleaned"),
		)
		return err
	}

	paths, err := listens.DiscoverPaths(runCtx, cfg.Paths.MLHDRoot, cfg.Clean.InputExtensions)
	if err != nil {
		return err
	}
	discovered := len(paths)
	if limit := cfg.Clean.Limit; limit > 0 && limit < len(paths) {
		paths = paths[:limit]
	}
	logger.Info("input files discovered",
		logging.Int("discovered", discovered),
		logging.Int("selected", len(paths)),
		logging.Bool("limited", len(paths) < discovered),
		logging.String("mlhd_root", cfg.Paths.MLHDRoot),
	)

	plog := progresslog.New(cfg.ProgressLogPath())
	processor := process.New(resolve.New(tables), process.Options{
		KeepMissing: cfg.Clean.KeepMissing,
		TurnBlank:   cfg.Clean.TurnBlank,
	})
	drv := driver.New(driver.OptionsFromConfig(cfg), processor, plog, logger)

	if flags.progress && len(paths) > 0 {
		bar := newProgressBar(cmd.ErrOrStderr(), len(paths))
		drv.OnProgress(func(string) { _ = bar.Add(1) })
		defer func() { _ = bar.Finish() }()
	}

	summary, err := drv.Run(runCtx, paths)
	if err != nil {
		logging.ErrorWithContext(logger, "cleaning run failed", "clean_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "progress log holds the files completed before the failure"),
		)
		return err
	}

	finished := time.Now()
	master := progresslog.Master{
		MasterTime:  progresslog.Seconds(finished.Sub(started)),
		ProcessTime: progresslog.Seconds(summary.Elapsed),
		RunID:       runID,
		Files:       summary.Files,
		Batches:     summary.Batches,
		Stats:       summary.Stats,
		StartedAt:   started.UTC(),
		FinishedAt:  finished.UTC(),
	}
	if err := plog.WriteMaster(master); err != nil {
		return err
	}
	logger.Info("cleaning run complete",
		logging.String(logging.FieldEventType, "clean_complete"),
		logging.Int("files", summary.Files),
		logging.Float64("master_seconds", master.MasterTime),
		logging.String("master_log", plog.MasterPath()),
	)

	fmt.Fprintln(cmd.OutOrStdout(), renderCleanSummary(summary, master, plog))
	return nil
}

func loadCatalog(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*catalog.Set, error) {
	store, err := catalog.Open(cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	loadStart := time.Now()
	tables, err := store.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	counts := tables.Counts()
	logger.Info("reference tables loaded",
		logging.Int("recording_rows", counts[catalog.TableRecordingGID]),
		logging.Int("redirect_rows", counts[catalog.TableRedirects]),
		logging.Int("canonical_rows", counts[catalog.TableCanonical]),
		logging.Int("credit_rows", counts[catalog.TableCredits]),
		logging.Duration("load_elapsed", time.Since(loadStart)),
	)
	return tables, nil
}

func warnIgnoredSettings(logger *slog.Logger, cfg *config.Config) {
	ignored := map[string]bool{
		"clean.keep_missing": cfg.Clean.KeepMissing,
		"clean.turn_blank":   cfg.Clean.TurnBlank,
	}
	for _, key := range []string{"clean.keep_missing", "clean.turn_blank"} {
		if !ignored[key] {
			continue
		}
		logging.WarnWithContext(logger, "setting has no effect", "config_setting_ignored",
			logging.String("setting", key),
			logging.String(logging.FieldErrorHint, "remove it from the config file"),
			logging.String(logging.FieldImpact, "unmatched ids are always kept and null ids stay blank"),
		)
	}
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("cleaning"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func renderCleanSummary(summary driver.Summary, master progresslog.Master, plog *progresslog.Log) string {
	stats := summary.Stats
	return renderKeyValues([][2]string{
		{"Files", humanize.Comma(int64(summary.Files))},
		{"Chunks", humanize.Comma(int64(summary.Batches))},
		{"Rows", humanize.Comma(int64(stats.Rows))},
		{"Redirected", humanize.Comma(int64(stats.Redirected))},
		{"Canonicalized", humanize.Comma(int64(stats.Canonicalized))},
		{"Unmatched", humanize.Comma(int64(stats.Unmatched))},
		{"Process time", fmt.Sprintf("%.2fs", master.ProcessTime)},
		{"Master time", fmt.Sprintf("%.2fs", master.MasterTime)},
		{"Progress log", plog.Path()},
		{"Master log", plog.MasterPath()},
	})
}

func preflightError(failed []preflight.Result) error {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight failed (%d): %s", len(failed), strings.Join(parts, "; "))
}
