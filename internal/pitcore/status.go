package pitcore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FileStatus represents the status of a single file in the working tree.
type FileStatus struct {
	// Path is the slash-separated path relative to the repository root.
	Path string

	// IndexStatus describes the change staged relative to HEAD:
	// "added", "modified", "deleted", or "" when index and HEAD agree.
	IndexStatus string

	// WorkStatus describes the change on disk relative to the index:
	// "modified", "deleted", or "" when disk and index agree.
	WorkStatus string

	// IsUntracked is true when the file exists on disk but is absent from
	// the index. IndexStatus and WorkStatus are empty in that case.
	IsUntracked bool
}

// WorkingTreeStatus is the full working tree status: one FileStatus per
// path that differs from HEAD, differs from the index, or is untracked.
type WorkingTreeStatus struct {
	Files []FileStatus
}

// Status computes the working tree status by comparing the HEAD tree
// against the index (staged changes), the index against the working
// directory (unstaged changes), and walking the working directory for
// untracked files. Ignored paths are never reported as untracked, and
// ignored directories are skipped whole.
func (r *Repository) Status() (*WorkingTreeStatus, error) {
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	headFiles, err := r.CommitFiles(head)
	if err != nil {
		return nil, fmt.Errorf("failed to load HEAD tree: %w", err)
	}

	idx, err := r.ReadIndex()
	if err != nil {
		return nil, err
	}

	results := make(map[string]*FileStatus)
	get := func(path string) *FileStatus {
		if st, ok := results[path]; ok {
			return st
		}
		st := &FileStatus{Path: path}
		results[path] = st
		return st
	}

	// HEAD vs index: staged changes.
	for path, entry := range idx {
		headHash, inHead := headFiles[path]
		switch {
		case !inHead:
			get(path).IndexStatus = "added"
		case headHash != entry.Hash:
			get(path).IndexStatus = "modified"
		}
	}
	for path := range headFiles {
		if _, inIndex := idx[path]; !inIndex {
			get(path).IndexStatus = "deleted"
		}
	}

	// Index vs working directory: unstaged changes.
	for path, entry := range idx {
		matches, err := r.workFileMatches(path, entry)
		if err != nil {
			return nil, err
		}
		if matches {
			continue
		}
		if _, statErr := r.statSize(path); statErr != nil {
			get(path).WorkStatus = "deleted"
		} else {
			get(path).WorkStatus = "modified"
		}
	}

	// Working directory walk: untracked files.
	ignore := r.LoadIgnore()
	walkErr := filepath.WalkDir(r.workDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if path == r.workDir {
			return nil
		}

		relPath, relErr := filepath.Rel(r.workDir, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if d.Name() == pitDirName || ignore.Ignored(relPath) {
				return filepath.SkipDir
			}
			return nil
		}
		if ignore.Ignored(relPath) {
			return nil
		}
		if _, tracked := idx[relPath]; tracked {
			return nil
		}

		get(relPath).IsUntracked = true
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk working directory: %w", walkErr)
	}

	status := &WorkingTreeStatus{Files: make([]FileStatus, 0, len(results))}
	for _, st := range results {
		status.Files = append(status.Files, *st)
	}
	sort.Slice(status.Files, func(i, j int) bool {
		return status.Files[i].Path < status.Files[j].Path
	})
	return status, nil
}

// statSize stats a working file, returning its size or the stat error.
func (r *Repository) statSize(relPath string) (int64, error) {
	info, err := os.Stat(r.workPath(relPath))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
