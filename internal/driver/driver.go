package driver

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"mlhdclean/internal/config"
	"mlhdclean/internal/listens"
	"mlhdclean/internal/logging"
	"mlhdclean/internal/process"
	"mlhdclean/internal/progresslog"
)

// Options controls chunking, concurrency and output placement.
type Options struct {
	InputRoot string
	WriteRoot string
	ChunkSize int
	Workers   int
	LogEpoch  int
}

// OptionsFromConfig derives driver options from the [paths] and [clean] sections.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		InputRoot: cfg.Paths.MLHDRoot,
		WriteRoot: cfg.Paths.WriteRoot,
		ChunkSize: cfg.Clean.ChunkSize,
		Workers:   cfg.Clean.MaxWorkers,
		LogEpoch:  cfg.Clean.LogEpoch,
	}
}

// Summary describes a completed run.
type Summary struct {
	Files   int
	Batches int
	Stats   process.Stats
	Elapsed time.Duration
	Outputs []string
}

// ProgressFunc is called after each output file is written. In concurrent
// mode it may be called from several goroutines at once.
type ProgressFunc func(output string)

// Driver executes cleaning runs.
type Driver struct {
	opts      Options
	processor *process.Processor
	log       *progresslog.Log
	logger    *slog.Logger
	sampler   *logging.ProgressSampler
	progress  ProgressFunc
	now       func() time.Time
}

// New constructs a driver. A nil logger discards output.
func New(opts Options, processor *process.Processor, log *progresslog.Log, logger *slog.Logger) *Driver {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Driver{
		opts:      opts,
		processor: processor,
		log:       log,
		logger:    logging.NewComponentLogger(logger, "driver"),
		sampler:   logging.NewProgressSampler(10),
		now:       time.Now,
	}
}

// OnProgress registers a callback invoked after every written file.
func (d *Driver) OnProgress(fn ProgressFunc) {
	d.progress = fn
}

// fileResult carries the outcome of one file through a chunk.
type fileResult struct {
	input   string
	output  string
	table   *listens.Table
	load    time.Duration
	process time.Duration
	write   time.Duration
	stats   process.Stats
}

// Run cleans every path. Any load or write failure stops the run; entries
// recorded before the failure are still flushed to the progress log.
func (d *Driver) Run(ctx context.Context, paths []string) (summary Summary, err error) {
	started := d.now()
	paths, dupes := dedupe(paths)
	if dupes > 0 {
		logging.WarnWithContext(d.logger, "duplicate input paths ignored", "duplicate_inputs",
			logging.Int("duplicates", dupes),
			logging.String(logging.FieldImpact, "each input is cleaned once"),
			logging.String(logging.FieldErrorHint, "check the path list passed to the driver"),
		)
	}

	batches := Chunk(paths, d.opts.ChunkSize)
	d.sampler.Reset()
	d.logger.Info("cleaning started",
		logging.Int("files", len(paths)),
		logging.Int("chunks", len(batches)),
		logging.Int("workers", d.opts.Workers),
		logging.String(logging.FieldEventType, "clean_started"),
	)

	defer func() {
		if flushErr := d.log.Flush(); flushErr != nil && err == nil {
			err = flushErr
		}
		summary.Elapsed = d.now().Sub(started)
	}()

	done := 0
	for i, batch := range batches {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return summary, fmt.Errorf("chunk %d: %w", i, ctxErr)
		}
		chunkLogger := d.logger.With(logging.String(logging.FieldChunk, strconv.Itoa(i)))

		var results []fileResult
		if d.opts.Workers > 1 {
			results, err = d.runConcurrent(ctx, chunkLogger, batch)
		} else {
			results, err = d.runSequential(ctx, chunkLogger, batch)
		}
		written := d.record(i, results, &summary)
		if err != nil {
			summary.Files = done + written
			return summary, fmt.Errorf("chunk %d: %w", i, err)
		}
		summary.Batches++

		before := done
		done += len(batch)
		summary.Files = done
		if crossedEpoch(before, done, d.opts.LogEpoch) {
			if err := d.log.Flush(); err != nil {
				return summary, err
			}
			chunkLogger.Debug("progress log flushed", logging.String("log_path", d.log.Path()))
		}

		percent := float64(done) / float64(len(paths)) * 100
		if d.sampler.ShouldLog(percent, "clean") {
			d.logger.Info("cleaning progress",
				logging.Int("done", done),
				logging.Int("files", len(paths)),
				logging.Float64("percent", float64(int(percent*10))/10),
				logging.String(logging.FieldEventType, "clean_progress"),
			)
		}
	}

	d.logger.Info("cleaning finished",
		logging.Int("files", summary.Files),
		logging.Int("chunks", summary.Batches),
		logging.Int("redirected", summary.Stats.Redirected),
		logging.Int("canonicalized", summary.Stats.Canonicalized),
		logging.Int("unmatched", summary.Stats.Unmatched),
		logging.Duration("run_elapsed", d.now().Sub(started)),
		logging.String(logging.FieldEventType, "clean_finished"),
	)
	return summary, nil
}

// record adds an entry for every result that reached its output file and
// returns how many did. Results of files that failed or never ran are skipped.
func (d *Driver) record(batch int, results []fileResult, summary *Summary) int {
	logged := d.now().UTC()
	written := 0
	for _, r := range results {
		if r.output == "" {
			continue
		}
		d.log.Record(r.output, progresslog.Entry{
			Input:          r.input,
			Batch:          batch,
			LoadSeconds:    progresslog.Seconds(r.load),
			ProcessSeconds: progresslog.Seconds(r.process),
			WriteSeconds:   progresslog.Seconds(r.write),
			Stats:          r.stats,
			LoggedAt:       logged,
		})
		summary.Stats.Add(r.stats)
		summary.Outputs = append(summary.Outputs, r.output)
		written++
	}
	return written
}

// crossedEpoch reports whether the processed count passed a multiple of epoch.
func crossedEpoch(before, after, epoch int) bool {
	if epoch <= 0 {
		return false
	}
	return after/epoch > before/epoch
}

func (d *Driver) runSequential(ctx context.Context, logger *slog.Logger, batch []string) ([]fileResult, error) {
	results := make([]fileResult, len(batch))

	logger.Debug("loading chunk", logging.Int("files", len(batch)))
	var total time.Duration
	for i, path := range batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := d.now()
		table, err := listens.ReadFile(path)
		if err != nil {
			return nil, err
		}
		results[i] = fileResult{input: path, table: table, load: d.now().Sub(start)}
		total += results[i].load
	}
	logger.Info("chunk loaded", logging.Duration("load_elapsed", total))

	total = 0
	for i := range results {
		res := d.processor.Process(results[i].table)
		results[i].table = res.Table
		results[i].process = res.Elapsed
		results[i].stats = res.Stats
		total += res.Elapsed
	}
	logger.Info("chunk processed", logging.Duration("process_elapsed", total))

	total = 0
	for i := range results {
		if err := d.write(&results[i]); err != nil {
			return results, err
		}
		total += results[i].write
	}
	logger.Info("chunk written", logging.Duration("write_elapsed", total))
	return results, nil
}

func (d *Driver) runConcurrent(ctx context.Context, logger *slog.Logger, batch []string) ([]fileResult, error) {
	results := make([]fileResult, len(batch))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(d.opts.Workers)

	var written atomic.Int64
	for i, path := range batch {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			start := d.now()
			table, err := listens.ReadFile(path)
			if err != nil {
				return err
			}
			r := fileResult{input: path, load: d.now().Sub(start)}
			res := d.processor.Process(table)
			r.table, r.process, r.stats = res.Table, res.Elapsed, res.Stats
			if err := d.write(&r); err != nil {
				return err
			}
			results[i] = r
			written.Add(1)
			logger.Debug("file cleaned", logging.String(logging.FieldFile, path), logging.Int("rows", r.stats.Rows))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return results, err
	}
	logger.Info("chunk cleaned", logging.Int64("files", written.Load()), logging.Int("workers", d.opts.Workers))
	return results, nil
}

func (d *Driver) write(r *fileResult) error {
	out, err := listens.OutputPath(d.opts.InputRoot, d.opts.WriteRoot, r.input)
	if err != nil {
		return err
	}
	start := d.now()
	if err := listens.WriteFile(out, r.table); err != nil {
		return err
	}
	r.output = out
	r.write = d.now().Sub(start)
	r.table = nil
	if d.progress != nil {
		d.progress(out)
	}
	return nil
}
