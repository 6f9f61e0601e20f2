package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// diagnosticHandler passes records to the primary handler at its own level and
// copies every record, debug included, to the diagnostic file.
type diagnosticHandler struct {
	primary slog.Handler
	file    slog.Handler
}

func (h diagnosticHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primary.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

func (h diagnosticHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	if h.primary.Enabled(ctx, record.Level) {
		errs = append(errs, h.primary.Handle(ctx, record.Clone()))
	}
	if h.file.Enabled(ctx, record.Level) {
		errs = append(errs, h.file.Handle(ctx, record))
	}
	return errors.Join(errs...)
}

func (h diagnosticHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return diagnosticHandler{primary: h.primary.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h diagnosticHandler) WithGroup(name string) slog.Handler {
	return diagnosticHandler{primary: h.primary.WithGroup(name), file: h.file.WithGroup(name)}
}

// DiagnosticLog is the JSON lines file behind a diagnostic logger.
type DiagnosticLog struct {
	file *os.File
}

// Path returns the diagnostic file location.
func (d *DiagnosticLog) Path() string {
	if d == nil || d.file == nil {
		return ""
	}
	return d.file.Name()
}

// Close releases the diagnostic file. It is safe on a nil log.
func (d *DiagnosticLog) Close() error {
	if d == nil || d.file == nil {
		return nil
	}
	return d.file.Close()
}

// WithDiagnostics returns a logger that behaves like base and additionally
// writes every record at debug level and above, with source locations, as
// JSON lines to path.
func WithDiagnostics(base *slog.Logger, path string) (*slog.Logger, *DiagnosticLog, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, fmt.Errorf("create diagnostic log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, nil, fmt.Errorf("open diagnostic log %s: %w", path, err)
	}

	var primary slog.Handler = NoopHandler{}
	if base != nil {
		primary = base.Handler()
	}
	level := new(slog.LevelVar)
	level.Set(slog.LevelDebug)
	handler := diagnosticHandler{primary: primary, file: newJSONHandler(file, level, true)}
	return slog.New(handler), &DiagnosticLog{file: file}, nil
}
