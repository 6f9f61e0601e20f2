package driver

// Chunk partitions paths into contiguous batches of size. The last batch may
// be shorter. A non-positive size yields a single batch.
func Chunk(paths []string, size int) [][]string {
	if len(paths) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(paths)
	}
	batches := make([][]string, 0, (len(paths)+size-1)/size)
	for start := 0; start < len(paths); start += size {
		end := min(start+size, len(paths))
		batches = append(batches, paths[start:end:end])
	}
	return batches
}

// dedupe drops repeated paths, keeping the first occurrence.
func dedupe(paths []string) ([]string, int) {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, len(paths) - len(out)
}
