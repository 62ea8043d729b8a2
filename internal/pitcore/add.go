package pitcore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Add stages the given paths: files are hashed into blobs (persisted) and
// recorded in the index with a fresh stat cache. A tracked path that has
// vanished from disk is unstaged, so its deletion will be part of the next
// commit. Directories are staged recursively, skipping ignored entries.
func (r *Repository) Add(paths []string) error {
	idx, err := r.ReadIndex()
	if err != nil {
		return err
	}
	ignore := r.LoadIgnore()

	for _, arg := range paths {
		relPath, err := r.relWorkPath(arg)
		if err != nil {
			return err
		}

		info, statErr := os.Stat(r.workPath(relPath))
		switch {
		case statErr == nil && info.IsDir():
			if err := r.stageDir(idx, ignore, relPath); err != nil {
				return err
			}
		case statErr == nil:
			if err := r.stageFile(idx, relPath); err != nil {
				return err
			}
		case os.IsNotExist(statErr):
			if _, tracked := idx[relPath]; tracked {
				idx.Unstage(relPath)
			} else {
				return fmt.Errorf("pathspec %q did not match any files", arg)
			}
		default:
			return fmt.Errorf("failed to stat %s: %w", relPath, statErr)
		}
	}

	return r.WriteIndex(idx)
}

// AddAll stages every non-ignored file under the repository root and drops
// index entries whose files have vanished from disk.
func (r *Repository) AddAll() error {
	idx, err := r.ReadIndex()
	if err != nil {
		return err
	}
	ignore := r.LoadIgnore()

	if err := r.stageDir(idx, ignore, ""); err != nil {
		return err
	}

	for path := range idx {
		if _, err := os.Stat(r.workPath(path)); os.IsNotExist(err) {
			idx.Unstage(path)
		}
	}

	return r.WriteIndex(idx)
}

// stageDir walks a directory (or the whole working tree when relDir is "")
// staging every non-ignored file.
func (r *Repository) stageDir(idx Index, ignore *IgnoreMatcher, relDir string) error {
	root := r.workDir
	if relDir != "" {
		root = r.workPath(relDir)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, relErr := filepath.Rel(r.workDir, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}

		if d.IsDir() {
			if d.Name() == pitDirName || ignore.Ignored(relPath) {
				return filepath.SkipDir
			}
			return nil
		}
		if ignore.Ignored(relPath) {
			return nil
		}
		return r.stageFile(idx, relPath)
	})
}

// stageFile hashes one file into the store and upserts its index entry.
func (r *Repository) stageFile(idx Index, relPath string) error {
	h, mtimeNs, size, err := r.HashWorkFile(relPath, true)
	if err != nil {
		return err
	}
	idx.Stage(relPath, h, mtimeNs, size)
	return nil
}

// relWorkPath normalizes a user-supplied path to a slash-separated path
// relative to the repository root, rejecting paths that escape it.
func (r *Repository) relWorkPath(arg string) (string, error) {
	abs := arg
	if !filepath.IsAbs(abs) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to resolve working directory: %w", err)
		}
		abs = filepath.Join(cwd, arg)
	}

	rel, err := filepath.Rel(r.workDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside the repository", arg)
	}
	return filepath.ToSlash(rel), nil
}
