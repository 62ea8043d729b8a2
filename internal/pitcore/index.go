package pitcore

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ReadIndex parses .pit/index into an Index. Each line is
// "<hash> <mtime_ns> <size> <path>"; the legacy two-field form
// "<hash> <path>" is accepted with a zeroed stat cache. A missing index file
// yields an empty Index: nothing is staged yet.
func (r *Repository) ReadIndex() (Index, error) {
	idx := make(Index)

	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	for lineNo, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		entry, path, err := parseIndexLine(line)
		if err != nil {
			return nil, fmt.Errorf("index line %d: %w", lineNo+1, err)
		}
		idx[path] = entry
	}

	return idx, nil
}

// parseIndexLine decodes one index line in either the current four-field
// format or the legacy two-field format.
func parseIndexLine(line string) (IndexEntry, string, error) {
	hashField, rest, ok := strings.Cut(line, " ")
	if !ok {
		return IndexEntry{}, "", fmt.Errorf("malformed entry: %q", line)
	}
	h, err := NewHash(hashField)
	if err != nil {
		return IndexEntry{}, "", fmt.Errorf("invalid blob hash: %w", err)
	}

	// Current format: "<mtime_ns> <size> <path>". Paths may contain spaces,
	// so only the two leading numeric fields are split off. If the second
	// field is not numeric this is a legacy "<hash> <path>" line and the
	// whole remainder is the path.
	fields := strings.SplitN(rest, " ", 3)
	if len(fields) == 3 {
		mtimeNs, mtimeErr := strconv.ParseInt(fields[0], 10, 64)
		size, sizeErr := strconv.ParseInt(fields[1], 10, 64)
		if mtimeErr == nil && sizeErr == nil {
			if fields[2] == "" {
				return IndexEntry{}, "", fmt.Errorf("empty path: %q", line)
			}
			return IndexEntry{Hash: h, MtimeNs: mtimeNs, Size: size}, fields[2], nil
		}
	}

	return IndexEntry{Hash: h}, rest, nil
}

// WriteIndex serializes the index in path-sorted order using the current
// four-field format and replaces .pit/index atomically. The legacy format
// is never emitted.
func (r *Repository) WriteIndex(idx Index) error {
	paths := make([]string, 0, len(idx))
	for path := range idx {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		entry := idx[path]
		fmt.Fprintf(&b, "%s %d %d %s\n", entry.Hash, entry.MtimeNs, entry.Size, path)
	}

	if err := writeFileAtomic(r.indexPath(), []byte(b.String())); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}
