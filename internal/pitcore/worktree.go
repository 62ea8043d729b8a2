package pitcore

import (
	"fmt"
	"os"
	"path/filepath"
)

// HashWorkFile hashes the on-disk content of a slash-separated repository
// path as a blob, optionally persisting it, and returns the hash with the
// file's current stat cache values.
func (r *Repository) HashWorkFile(relPath string, persist bool) (Hash, int64, int64, error) {
	fullPath := r.workPath(relPath)

	//nolint:gosec // G304: path is relative to the repository working directory
	content, err := os.ReadFile(fullPath)
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to read %s: %w", relPath, err)
	}

	h, err := r.HashObject(content, BlobObject, persist)
	if err != nil {
		return "", 0, 0, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to stat %s: %w", relPath, err)
	}
	return h, info.ModTime().UnixNano(), info.Size(), nil
}

// workFileMatches reports whether the on-disk file at relPath still has the
// content the index entry records. The stat cache short-circuits hashing:
// when mtime and size both match the cached values the content is assumed
// unchanged. A zeroed cache always falls through to hashing.
func (r *Repository) workFileMatches(relPath string, entry IndexEntry) (bool, error) {
	info, err := os.Stat(r.workPath(relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", relPath, err)
	}

	if entry.MtimeNs != 0 && info.ModTime().UnixNano() == entry.MtimeNs && info.Size() == entry.Size {
		return true, nil
	}

	h, _, _, err := r.HashWorkFile(relPath, false)
	if err != nil {
		return false, err
	}
	return h == entry.Hash, nil
}

// IsClean implements the clean-tree predicate: the HEAD tree equals the
// index, every indexed path exists on disk, and every on-disk content
// matches its indexed hash. Untracked files do not count as dirty.
func (r *Repository) IsClean() (bool, error) {
	head, err := r.HeadCommit()
	if err != nil {
		return false, err
	}
	headFiles, err := r.CommitFiles(head)
	if err != nil {
		return false, err
	}

	idx, err := r.ReadIndex()
	if err != nil {
		return false, err
	}

	if len(headFiles) != len(idx) {
		return false, nil
	}
	for path, h := range headFiles {
		entry, ok := idx[path]
		if !ok || entry.Hash != h {
			return false, nil
		}
	}

	for path, entry := range idx {
		matches, err := r.workFileMatches(path, entry)
		if err != nil {
			return false, err
		}
		if !matches {
			return false, nil
		}
	}
	return true, nil
}

// requireClean returns ErrDirtyWorkingTree unless the tree is clean.
func (r *Repository) requireClean() error {
	clean, err := r.IsClean()
	if err != nil {
		return err
	}
	if !clean {
		return ErrDirtyWorkingTree
	}
	return nil
}

// SwapWorkingTree rewrites the working directory from one flat file map to
// another: paths new or changed in target are materialized from the store,
// and paths only in current are deleted along with any directories the
// deletions emptied.
func (r *Repository) SwapWorkingTree(current, target map[string]Hash) error {
	for path, h := range target {
		if currentHash, exists := current[path]; exists && currentHash == h {
			continue
		}
		if err := r.materializeBlob(path, h); err != nil {
			return err
		}
	}

	for path := range current {
		if _, keep := target[path]; !keep {
			if err := r.removeWorkFile(path); err != nil {
				return err
			}
		}
	}
	return nil
}

// resetIndexTo rewrites the index to exactly the given file map, refreshing
// the stat cache from disk where the file is present.
func (r *Repository) resetIndexTo(files map[string]Hash) error {
	idx := make(Index, len(files))
	for path, h := range files {
		mtimeNs, size := r.statWorkFile(path)
		idx.Stage(path, h, mtimeNs, size)
	}
	return r.WriteIndex(idx)
}

// hardReset makes the working directory and index match the given commit.
// Used by rebase start/abort and stash push.
func (r *Repository) hardReset(target Hash) error {
	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	currentFiles, err := r.CommitFiles(head)
	if err != nil {
		return err
	}
	// Paths staged but not committed must be removed too; swap from the
	// union of HEAD and the index so they are covered.
	idx, err := r.ReadIndex()
	if err != nil {
		return err
	}
	for path, entry := range idx {
		if _, tracked := currentFiles[path]; !tracked {
			currentFiles[path] = entry.Hash
		}
	}
	// Compare against what is actually on disk, so a locally modified file
	// whose recorded hash equals the target is still rewritten.
	for path := range currentFiles {
		diskHash, _, _, hashErr := r.HashWorkFile(path, false)
		if hashErr != nil {
			diskHash = ""
		}
		currentFiles[path] = diskHash
	}

	targetFiles, err := r.CommitFiles(target)
	if err != nil {
		return err
	}

	if err := r.SwapWorkingTree(currentFiles, targetFiles); err != nil {
		return err
	}
	return r.resetIndexTo(targetFiles)
}

// materializeBlob writes the blob with the given hash to relPath in the
// working directory, creating parent directories as needed.
func (r *Repository) materializeBlob(relPath string, h Hash) error {
	content, err := r.ReadBlob(h)
	if err != nil {
		return fmt.Errorf("failed to materialize %s: %w", relPath, err)
	}
	return r.writeWorkFile(relPath, content)
}

// writeWorkFile writes raw content to relPath in the working directory.
func (r *Repository) writeWorkFile(relPath string, content []byte) error {
	fullPath := r.workPath(relPath)
	if dir := filepath.Dir(fullPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", relPath, err)
		}
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", relPath, err)
	}
	return nil
}

// removeWorkFile deletes relPath from the working directory and prunes any
// ancestor directories left empty, stopping at the repository root. A path
// already absent is a no-op.
func (r *Repository) removeWorkFile(relPath string) error {
	fullPath := r.workPath(relPath)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", relPath, err)
	}

	dir := filepath.Dir(fullPath)
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
	return nil
}

// statWorkFile returns the stat cache values for relPath, or zeros when the
// file cannot be observed.
func (r *Repository) statWorkFile(relPath string) (mtimeNs, size int64) {
	info, err := os.Stat(r.workPath(relPath))
	if err != nil {
		return 0, 0
	}
	return info.ModTime().UnixNano(), info.Size()
}
