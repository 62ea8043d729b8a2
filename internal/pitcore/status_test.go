package pitcore

import (
	"os"
	"testing"
)

func statusByPath(t *testing.T, repo *Repository) map[string]FileStatus {
	t.Helper()
	status, err := repo.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	result := make(map[string]FileStatus, len(status.Files))
	for _, f := range status.Files {
		result[f.Path] = f
	}
	return result
}

func TestStatus_CleanTreeIsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	writeAndCommit(t, repo, "a.txt", "x", "base")

	if files := statusByPath(t, repo); len(files) != 0 {
		t.Errorf("expected empty status, got %v", files)
	}
}

func TestStatus_StagedStates(t *testing.T) {
	repo := newTestRepo(t)
	writeAndCommit(t, repo, "modified.txt", "old", "base")
	writeAndCommit(t, repo, "deleted.txt", "bye", "second")

	// Staged addition.
	writeWorkFile(t, repo, "added.txt", "new")
	stage(t, repo, "added.txt")

	// Staged modification.
	writeWorkFile(t, repo, "modified.txt", "new content")
	stage(t, repo, "modified.txt")

	// Staged deletion.
	if err := os.Remove(repo.WorkPath("deleted.txt")); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	stage(t, repo, "deleted.txt")

	files := statusByPath(t, repo)
	if files["added.txt"].IndexStatus != "added" {
		t.Errorf("added.txt: %+v", files["added.txt"])
	}
	if files["modified.txt"].IndexStatus != "modified" {
		t.Errorf("modified.txt: %+v", files["modified.txt"])
	}
	if files["deleted.txt"].IndexStatus != "deleted" {
		t.Errorf("deleted.txt: %+v", files["deleted.txt"])
	}
}

func TestStatus_UnstagedStates(t *testing.T) {
	repo := newTestRepo(t)
	writeAndCommit(t, repo, "modified.txt", "old", "base")
	writeAndCommit(t, repo, "deleted.txt", "bye", "second")

	writeWorkFile(t, repo, "modified.txt", "edited on disk")
	if err := os.Remove(repo.WorkPath("deleted.txt")); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	files := statusByPath(t, repo)
	if files["modified.txt"].WorkStatus != "modified" {
		t.Errorf("modified.txt: %+v", files["modified.txt"])
	}
	if files["deleted.txt"].WorkStatus != "deleted" {
		t.Errorf("deleted.txt: %+v", files["deleted.txt"])
	}
}

func TestStatus_Untracked(t *testing.T) {
	repo := newTestRepo(t)
	writeAndCommit(t, repo, "a.txt", "x", "base")
	writeWorkFile(t, repo, "new.txt", "n")

	files := statusByPath(t, repo)
	if !files["new.txt"].IsUntracked {
		t.Errorf("new.txt: %+v", files["new.txt"])
	}
}

func TestStatus_IgnoredNotUntracked(t *testing.T) {
	repo := newTestRepo(t)
	writeWorkFile(t, repo, ".pitignore", "*.log\n")
	stage(t, repo, ".pitignore")
	commit(t, repo, "ignore rules")

	writeWorkFile(t, repo, "noise.log", "zzz")
	writeWorkFile(t, repo, "deep/dir/also.log", "zzz")

	files := statusByPath(t, repo)
	if _, listed := files["noise.log"]; listed {
		t.Errorf("ignored file reported as untracked")
	}
	if _, listed := files["deep/dir/also.log"]; listed {
		t.Errorf("ignored file in subdirectory reported as untracked")
	}
}

func TestStatus_StatCacheMissRehashes(t *testing.T) {
	repo := newTestRepo(t)
	writeAndCommit(t, repo, "a.txt", "content", "base")

	// Rewrite the file with identical content: size matches, mtime
	// changes, so the comparison falls back to hashing and still reports
	// clean.
	writeWorkFile(t, repo, "a.txt", "content")

	if files := statusByPath(t, repo); len(files) != 0 {
		t.Errorf("identical content must read as clean, got %v", files)
	}
}
