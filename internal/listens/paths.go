package listens

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverPaths walks root and returns every regular file whose name ends in
// one of extensions, sorted lexically. Hidden files and directories are skipped.
func DiscoverPaths(ctx context.Context, root string, extensions []string) ([]string, error) {
	root = filepath.Clean(root)
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if path != root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if hasExtension(name, extensions) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover listens under %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if ext != "" && strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// OutputPath mirrors path from inputRoot into writeRoot. It fails when path is
// not inside inputRoot or the mirrored path would equal the input.
func OutputPath(inputRoot, writeRoot, path string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(inputRoot), filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("output path for %s: %w", path, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("output path for %s: not under %s", path, inputRoot)
	}
	out := filepath.Join(writeRoot, rel)
	if filepath.Clean(out) == filepath.Clean(path) {
		return "", fmt.Errorf("output path for %s: would overwrite input", path)
	}
	return out, nil
}
