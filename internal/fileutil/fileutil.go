// Package fileutil provides compression-aware file readers and atomic writers
// shared by the listens codec and the catalog importer.
package fileutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// IsCompressed reports whether path names a zstd-compressed file.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zst")
}

type zstdReadCloser struct {
	dec  *zstd.Decoder
	file *os.File
}

func (z *zstdReadCloser) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z *zstdReadCloser) Close() error {
	z.dec.Close()
	return z.file.Close()
}

// OpenReader opens path for reading, transparently decompressing .zst files.
func OpenReader(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(path) {
		return file, nil
	}
	dec, err := zstd.NewReader(bufio.NewReader(file), zstd.WithDecoderConcurrency(1))
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("zstd reader %s: %w", path, err)
	}
	return &zstdReadCloser{dec: dec, file: file}, nil
}

// WriteAtomic writes path by streaming fill into a temp file in the same
// directory and renaming it into place. Paths ending in .zst are zstd-compressed.
// Parent directories are created as needed. On failure no partial file remains.
func WriteAtomic(path string, mode os.FileMode, fill func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	buffered := bufio.NewWriterSize(tmp, 64*1024)
	var sink io.Writer = buffered
	var enc *zstd.Encoder
	if IsCompressed(path) {
		enc, err = zstd.NewWriter(buffered, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		sink = enc
	}

	if err = fill(sink); err != nil {
		if enc != nil {
			_ = enc.Close()
		}
		return err
	}
	if enc != nil {
		if err = enc.Close(); err != nil {
			return fmt.Errorf("finish zstd stream: %w", err)
		}
	}
	if err = buffered.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// WriteFileAtomic writes data to path atomically.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	return WriteAtomic(path, mode, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// ErrNotRegular is returned by EnsureRegular for directories and special files.
var ErrNotRegular = errors.New("not a regular file")

// EnsureRegular returns the file size, or ErrNotRegular when path is not a plain file.
func EnsureRegular(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	return info.Size(), nil
}
