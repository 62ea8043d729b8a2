package pitcore

import (
	"os"
	"path/filepath"
	"testing"
)

// newTestRepo initializes a repository in a temp directory with a test
// identity configured. HOME is redirected so a developer's ~/.pitconfig
// cannot leak into test results.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	repo, created, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !created {
		t.Fatalf("Init reported existing repository in a fresh temp dir")
	}

	if err := repo.SetConfig("user.name", "Test User"); err != nil {
		t.Fatalf("SetConfig user.name failed: %v", err)
	}
	if err := repo.SetConfig("user.email", "test@example.com"); err != nil {
		t.Fatalf("SetConfig user.email failed: %v", err)
	}
	return repo
}

// writeWorkFile creates a file (and parent directories) under the
// repository's working directory.
func writeWorkFile(t *testing.T, repo *Repository, relPath, content string) {
	t.Helper()
	fullPath := repo.WorkPath(relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("mkdir for %s failed: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s failed: %v", relPath, err)
	}
}

// readWorkFile returns the content of a working-directory file.
func readWorkFile(t *testing.T, repo *Repository, relPath string) string {
	t.Helper()
	content, err := os.ReadFile(repo.WorkPath(relPath))
	if err != nil {
		t.Fatalf("read %s failed: %v", relPath, err)
	}
	return string(content)
}

// stage runs Add on working-directory paths.
func stage(t *testing.T, repo *Repository, relPaths ...string) {
	t.Helper()
	abs := make([]string, len(relPaths))
	for i, p := range relPaths {
		abs[i] = repo.WorkPath(p)
	}
	if err := repo.Add(abs); err != nil {
		t.Fatalf("Add %v failed: %v", relPaths, err)
	}
}

// commit records the current index with the given message.
func commit(t *testing.T, repo *Repository, message string) Hash {
	t.Helper()
	h, err := repo.Commit(message)
	if err != nil {
		t.Fatalf("Commit %q failed: %v", message, err)
	}
	return h
}

// writeAndCommit is the write-stage-commit shorthand most scenarios need.
func writeAndCommit(t *testing.T, repo *Repository, relPath, content, message string) Hash {
	t.Helper()
	writeWorkFile(t, repo, relPath, content)
	stage(t, repo, relPath)
	return commit(t, repo, message)
}

// headFiles returns HEAD's flat file map.
func headFiles(t *testing.T, repo *Repository) map[string]Hash {
	t.Helper()
	head, err := repo.HeadCommit()
	if err != nil {
		t.Fatalf("HeadCommit failed: %v", err)
	}
	files, err := repo.CommitFiles(head)
	if err != nil {
		t.Fatalf("CommitFiles failed: %v", err)
	}
	return files
}
