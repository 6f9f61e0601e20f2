// Package driver runs a cleaning pass over a list of MLHD files.
//
// Files are partitioned into contiguous chunks. Each chunk is loaded,
// processed and written in three phases, then its per-file timings are
// recorded in the progress log, which is flushed every log_epoch files and at
// the end of the run. With more than one worker, each file of a chunk is
// loaded, processed and written as an independent unit on an errgroup; output
// is identical but log entry order within a chunk is not preserved.
package driver
