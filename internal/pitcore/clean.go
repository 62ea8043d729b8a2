package pitcore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CleanMode selects what Clean does with the untracked paths it finds.
type CleanMode int

const (
	// CleanPreview lists removal candidates without touching anything.
	// This is the default: the caller prints the list and exits.
	CleanPreview CleanMode = iota
	// CleanDryRun is the explicit -n form; also removes nothing.
	CleanDryRun
	// CleanForce removes the listed paths from disk.
	CleanForce
)

// Clean enumerates working-tree files that are neither tracked in the index
// nor ignored, and removes them when mode is CleanForce. With includeDirs,
// directories containing no tracked file are treated as one removable unit.
// Ignored directories are skipped whole and never descended into. The .pit
// directory is never touched. Returned paths are sorted.
func (r *Repository) Clean(mode CleanMode, includeDirs bool) ([]string, error) {
	idx, err := r.ReadIndex()
	if err != nil {
		return nil, err
	}
	ignore := r.LoadIgnore()

	// Every ancestor directory of a tracked file is itself tracked.
	trackedDirs := make(map[string]bool)
	for path := range idx {
		parts := strings.Split(path, "/")
		for i := 1; i < len(parts); i++ {
			trackedDirs[strings.Join(parts[:i], "/")] = true
		}
	}

	var untrackedFiles []string
	var untrackedDirs []string

	var walk func(dir string) error
	walk = func(dir string) error {
		fullDir := r.workDir
		if dir != "" {
			fullDir = r.workPath(dir)
		}
		entries, err := os.ReadDir(fullDir)
		if err != nil {
			return fmt.Errorf("failed to read directory %s: %w", dir, err)
		}

		for _, entry := range entries {
			relPath := entry.Name()
			if dir != "" {
				relPath = dir + "/" + entry.Name()
			}

			if entry.IsDir() {
				if entry.Name() == pitDirName || ignore.Ignored(relPath) {
					continue
				}
				if includeDirs && !trackedDirs[relPath] {
					untrackedDirs = append(untrackedDirs, relPath)
					continue
				}
				if err := walk(relPath); err != nil {
					return err
				}
				continue
			}

			if ignore.Ignored(relPath) {
				continue
			}
			if _, tracked := idx[relPath]; !tracked {
				untrackedFiles = append(untrackedFiles, relPath)
			}
		}
		return nil
	}

	if err := walk(""); err != nil {
		return nil, err
	}

	candidates := append(untrackedFiles, untrackedDirs...)
	sort.Strings(candidates)

	if mode != CleanForce {
		return candidates, nil
	}

	for _, path := range untrackedFiles {
		if err := os.Remove(r.workPath(path)); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	for _, dir := range untrackedDirs {
		if err := os.RemoveAll(r.workPath(dir)); err != nil {
			return nil, fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}
	r.pruneEmptyDirs(untrackedFiles)
	return candidates, nil
}

// pruneEmptyDirs is a post-clean sweep removing directories the removals
// emptied, bottom-up, never crossing the repository root.
func (r *Repository) pruneEmptyDirs(paths []string) {
	for _, path := range paths {
		dir := filepath.Dir(r.workPath(path))
		for dir != r.workDir && len(dir) > len(r.workDir) {
			entries, err := os.ReadDir(dir)
			if err != nil || len(entries) > 0 {
				break
			}
			if err := os.Remove(dir); err != nil {
				break
			}
			dir = filepath.Dir(dir)
		}
	}
}
