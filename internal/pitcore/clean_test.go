package pitcore

import (
	"os"
	"testing"
)

func TestClean_PreviewDoesNotRemove(t *testing.T) {
	repo := newTestRepo(t)
	writeAndCommit(t, repo, "tracked.txt", "t", "base")
	writeWorkFile(t, repo, "junk.txt", "j")

	paths, err := repo.Clean(CleanPreview, false)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if len(paths) != 1 || paths[0] != "junk.txt" {
		t.Errorf("candidates: got %v", paths)
	}
	if _, err := os.Stat(repo.WorkPath("junk.txt")); err != nil {
		t.Errorf("preview must not remove files: %v", err)
	}
}

func TestClean_ForceRemoves(t *testing.T) {
	repo := newTestRepo(t)
	writeAndCommit(t, repo, "tracked.txt", "t", "base")
	writeWorkFile(t, repo, "junk.txt", "j")
	writeWorkFile(t, repo, "sub/junk2.txt", "j2")

	paths, err := repo.Clean(CleanForce, false)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if len(paths) != 2 {
		t.Errorf("candidates: got %v", paths)
	}

	if _, err := os.Stat(repo.WorkPath("junk.txt")); !os.IsNotExist(err) {
		t.Errorf("junk.txt should be removed")
	}
	if _, err := os.Stat(repo.WorkPath("sub")); !os.IsNotExist(err) {
		t.Errorf("emptied sub/ should be pruned")
	}
	if _, err := os.Stat(repo.WorkPath("tracked.txt")); err != nil {
		t.Errorf("tracked file must survive: %v", err)
	}
}

func TestClean_DirectoriesNeedFlag(t *testing.T) {
	repo := newTestRepo(t)
	writeAndCommit(t, repo, "keep/tracked.txt", "t", "base")
	writeWorkFile(t, repo, "untracked-dir/a.txt", "a")
	writeWorkFile(t, repo, "untracked-dir/b/c.txt", "c")

	t.Run("without -d descends into directories", func(t *testing.T) {
		paths, err := repo.Clean(CleanDryRun, false)
		if err != nil {
			t.Fatalf("Clean failed: %v", err)
		}
		want := map[string]bool{"untracked-dir/a.txt": true, "untracked-dir/b/c.txt": true}
		if len(paths) != len(want) {
			t.Fatalf("candidates: got %v", paths)
		}
		for _, p := range paths {
			if !want[p] {
				t.Errorf("unexpected candidate %s", p)
			}
		}
	})

	t.Run("with -d removes the directory whole", func(t *testing.T) {
		paths, err := repo.Clean(CleanForce, true)
		if err != nil {
			t.Fatalf("Clean failed: %v", err)
		}
		if len(paths) != 1 || paths[0] != "untracked-dir" {
			t.Errorf("candidates: got %v", paths)
		}
		if _, err := os.Stat(repo.WorkPath("untracked-dir")); !os.IsNotExist(err) {
			t.Errorf("untracked-dir should be removed")
		}
		if _, err := os.Stat(repo.WorkPath("keep/tracked.txt")); err != nil {
			t.Errorf("tracked directory must survive: %v", err)
		}
	})
}

func TestClean_SkipsIgnored(t *testing.T) {
	repo := newTestRepo(t)
	writeAndCommit(t, repo, "tracked.txt", "t", "base")
	writeWorkFile(t, repo, ".pitignore", "*.log\nbuild\n")
	stage(t, repo, ".pitignore")
	commit(t, repo, "ignore rules")

	writeWorkFile(t, repo, "debug.log", "noise")
	writeWorkFile(t, repo, "build/out.bin", "obj")
	writeWorkFile(t, repo, "real-junk.txt", "j")

	paths, err := repo.Clean(CleanDryRun, true)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if len(paths) != 1 || paths[0] != "real-junk.txt" {
		t.Errorf("candidates: got %v (ignored entries must be skipped)", paths)
	}
}

func TestClean_NeverTouchesPitDir(t *testing.T) {
	repo := newTestRepo(t)
	writeAndCommit(t, repo, "a.txt", "x", "base")

	if _, err := repo.Clean(CleanForce, true); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if _, err := os.Stat(repo.PitDir()); err != nil {
		t.Errorf(".pit must never be cleaned: %v", err)
	}
}
