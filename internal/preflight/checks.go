package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"mlhdclean/internal/catalog"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDirectory verifies that the directory exists and can be listed.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckFreeSpace verifies that the filesystem holding path has at least
// minGiB gibibytes available. A minimum of zero only reports the free space.
func CheckFreeSpace(name, path string, minGiB int) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := uint64(stat.Bavail) * uint64(stat.Bsize)
	required := uint64(max(minGiB, 0)) << 30
	if free < required {
		return Result{Name: name, Detail: fmt.Sprintf("%s free, need %s", humanize.IBytes(free), humanize.IBytes(required))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s free", humanize.IBytes(free))}
}

// CheckCatalog verifies that every reference table has been imported.
func CheckCatalog(ctx context.Context, path string) Result {
	const name = "Reference catalog"

	if _, err := os.Stat(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not imported; run 'mlhdclean catalog import')", path)}
	}
	store, err := catalog.OpenPath(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()

	if err := store.CheckReady(ctx); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	imports, err := store.Imports(ctx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	var rows int64
	var oldest time.Time
	for _, rec := range imports {
		rows += rec.RowCount
		if oldest.IsZero() || rec.ImportedAt.Before(oldest) {
			oldest = rec.ImportedAt
		}
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%d tables, %s rows, imported %s", len(imports), humanize.Comma(rows), humanize.Time(oldest)),
	}
}

// CheckMusicBrainz verifies the configured MusicBrainz database is reachable.
func CheckMusicBrainz(ctx context.Context, dsn string) Result {
	const name = "MusicBrainz database"

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	src, err := catalog.OpenPostgres(checkCtx, dsn)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{Name: name, Detail: "connection timed out"}
		}
		return Result{Name: name, Detail: err.Error()}
	}
	defer src.Close()
	return Result{Name: name, Passed: true, Detail: src.Describe()}
}
