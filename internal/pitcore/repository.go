// Package pitcore implements the pit storage and history engine: the
// content-addressed object store, the staging index, tree construction,
// refs and HEAD, DAG traversal, three-way merging, and the command state
// machines that compose them.
package pitcore

import (
	"fmt"
	"os"
	"path/filepath"
)

// pitDirName is the repository metadata directory at the workspace root.
const pitDirName = ".pit"

// Repository provides access to one pit repository on disk. All reads go
// through the object store and ref files on demand; nothing is cached
// in memory between operations.
type Repository struct {
	pitDir  string
	workDir string
}

// Find opens the repository containing startPath by walking parent
// directories until a .pit directory is found.
func Find(startPath string) (*Repository, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	currentPath := absPath
	for {
		pitPath := filepath.Join(currentPath, pitDirName)
		if info, statErr := os.Stat(pitPath); statErr == nil && info.IsDir() {
			return &Repository{pitDir: pitPath, workDir: currentPath}, nil
		}

		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath {
			return nil, fmt.Errorf("%w (or any parent up to mount point): %s", ErrNotARepository, startPath)
		}
		currentPath = parentPath
	}
}

// Init creates an empty repository at path: the .pit directory with its
// object store, ref namespaces, an unborn master branch, and an empty index.
// Initializing over an existing repository leaves it untouched.
func Init(path string) (*Repository, bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve path: %w", err)
	}

	pitDir := filepath.Join(absPath, pitDirName)
	if info, statErr := os.Stat(pitDir); statErr == nil && info.IsDir() {
		return &Repository{pitDir: pitDir, workDir: absPath}, false, nil
	}

	for _, dir := range []string{
		filepath.Join(pitDir, "objects"),
		filepath.Join(pitDir, "refs", "heads"),
		filepath.Join(pitDir, "refs", "tags"),
		filepath.Join(pitDir, "logs"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, false, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	repo := &Repository{pitDir: pitDir, workDir: absPath}

	if err := os.WriteFile(repo.headPath(), []byte("ref: refs/heads/master\n"), 0o644); err != nil {
		return nil, false, fmt.Errorf("failed to write HEAD: %w", err)
	}
	// The master ref exists but stays empty until the first commit.
	if err := os.WriteFile(repo.branchPath("master"), nil, 0o644); err != nil {
		return nil, false, fmt.Errorf("failed to create master ref: %w", err)
	}
	if err := os.WriteFile(repo.indexPath(), nil, 0o644); err != nil {
		return nil, false, fmt.Errorf("failed to create index: %w", err)
	}
	if err := os.WriteFile(repo.configPath(), nil, 0o644); err != nil {
		return nil, false, fmt.Errorf("failed to create config: %w", err)
	}

	return repo, true, nil
}

// PitDir returns the path to the repository's .pit directory.
func (r *Repository) PitDir() string { return r.pitDir }

// WorkDir returns the path to the repository's working directory.
func (r *Repository) WorkDir() string { return r.workDir }

// Name returns the base name of the repository's working directory.
func (r *Repository) Name() string { return filepath.Base(r.workDir) }

func (r *Repository) objectsDir() string    { return filepath.Join(r.pitDir, "objects") }
func (r *Repository) headPath() string      { return filepath.Join(r.pitDir, "HEAD") }
func (r *Repository) indexPath() string     { return filepath.Join(r.pitDir, "index") }
func (r *Repository) configPath() string    { return filepath.Join(r.pitDir, "config") }
func (r *Repository) mergeHeadPath() string { return filepath.Join(r.pitDir, "MERGE_HEAD") }
func (r *Repository) stashLogPath() string  { return filepath.Join(r.pitDir, "logs", "stash") }
func (r *Repository) rebaseDir() string     { return filepath.Join(r.pitDir, "rebase-apply") }
func (r *Repository) headsDir() string      { return filepath.Join(r.pitDir, "refs", "heads") }
func (r *Repository) tagsDir() string       { return filepath.Join(r.pitDir, "refs", "tags") }
func (r *Repository) branchPath(name string) string {
	return filepath.Join(r.headsDir(), name)
}
func (r *Repository) tagPath(name string) string {
	return filepath.Join(r.tagsDir(), name)
}

// workPath converts a slash-separated repository-relative path to an
// absolute path on the host filesystem.
func (r *Repository) workPath(relPath string) string {
	return filepath.Join(r.workDir, filepath.FromSlash(relPath))
}

// WorkPath is the exported form of workPath for callers outside the engine
// (the CLI driver and the status server).
func (r *Repository) WorkPath(relPath string) string {
	return r.workPath(relPath)
}

// writeFileAtomic writes data to path via a uniquely-named temporary file in
// the same directory followed by a rename, so readers never observe a
// partially-written file. Refs, the index, and objects all go through this.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
