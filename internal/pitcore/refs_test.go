package pitcore

import (
	"errors"
	"testing"
)

func TestReadHead_FreshRepository(t *testing.T) {
	repo := newTestRepo(t)

	head, err := repo.ReadHead()
	if err != nil {
		t.Fatalf("ReadHead failed: %v", err)
	}
	if head.Branch != "master" {
		t.Errorf("Branch: got %q, want master", head.Branch)
	}
	if head.Commit != "" {
		t.Errorf("Commit: got %s, want unborn", head.Commit)
	}
	if head.Detached {
		t.Errorf("fresh HEAD should be attached")
	}
}

func TestCommit_AdvancesBranch(t *testing.T) {
	repo := newTestRepo(t)
	h := writeAndCommit(t, repo, "a.txt", "hi", "m")

	branchTip, err := repo.BranchCommit("master")
	if err != nil {
		t.Fatalf("BranchCommit failed: %v", err)
	}
	if branchTip != h {
		t.Errorf("master: got %s, want %s", branchTip, h)
	}
}

func TestCreateBranch(t *testing.T) {
	repo := newTestRepo(t)
	h := writeAndCommit(t, repo, "a.txt", "hi", "m")

	if err := repo.CreateBranch("feature", h); err != nil {
		t.Fatalf("CreateBranch failed: %v", err)
	}

	t.Run("duplicate fails", func(t *testing.T) {
		if err := repo.CreateBranch("feature", h); !errors.Is(err, ErrBranchExists) {
			t.Errorf("expected ErrBranchExists, got %v", err)
		}
	})

	t.Run("invalid names fail", func(t *testing.T) {
		for _, name := range []string{"", ".hidden", "a/b", `a\b`} {
			if err := repo.CreateBranch(name, h); !errors.Is(err, ErrInvalidRefName) {
				t.Errorf("name %q: expected ErrInvalidRefName, got %v", name, err)
			}
		}
	})
}

func TestDetachedCommit_UpdatesHead(t *testing.T) {
	repo := newTestRepo(t)
	first := writeAndCommit(t, repo, "a.txt", "v1", "one")

	if err := repo.DetachHead(first); err != nil {
		t.Fatalf("DetachHead failed: %v", err)
	}

	second := writeAndCommit(t, repo, "a.txt", "v2", "two")

	head, err := repo.ReadHead()
	if err != nil {
		t.Fatalf("ReadHead failed: %v", err)
	}
	if !head.Detached {
		t.Fatalf("HEAD should be detached")
	}
	if head.Commit != second {
		t.Errorf("HEAD: got %s, want %s", head.Commit, second)
	}

	// The branch must not have moved.
	branchTip, err := repo.BranchCommit("master")
	if err != nil {
		t.Fatalf("BranchCommit failed: %v", err)
	}
	if branchTip != first {
		t.Errorf("master moved to %s, want %s", branchTip, first)
	}
}

func TestResolveRevision(t *testing.T) {
	repo := newTestRepo(t)
	first := writeAndCommit(t, repo, "a.txt", "v1", "one")
	second := writeAndCommit(t, repo, "a.txt", "v2", "two")

	if err := repo.CreateBranch("feature", first); err != nil {
		t.Fatalf("CreateBranch failed: %v", err)
	}
	if err := repo.CreateTag("v1.0", first); err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}

	tests := []struct {
		name string
		rev  string
		want Hash
	}{
		{"HEAD", "HEAD", second},
		{"head lowercase", "head", second},
		{"branch", "feature", first},
		{"tag", "v1.0", first},
		{"full hash", string(second), second},
		{"prefix", string(first)[:8], first},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ResolveRevision(tt.rev)
			if err != nil {
				t.Fatalf("ResolveRevision(%q) failed: %v", tt.rev, err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := repo.ResolveRevision("no-such-thing")
		if !errors.Is(err, ErrUnknownRevision) {
			t.Errorf("expected ErrUnknownRevision, got %v", err)
		}
	})

	t.Run("blob prefix is not a revision", func(t *testing.T) {
		// a.txt's blob shares the store with commits; its prefix must be
		// rejected by revision resolution.
		files := headFiles(t, repo)
		blobHash := files["a.txt"]
		_, err := repo.ResolveRevision(string(blobHash)[:8])
		if !errors.Is(err, ErrUnknownRevision) {
			t.Errorf("expected ErrUnknownRevision, got %v", err)
		}
	})
}

func TestCreateTag_Validation(t *testing.T) {
	repo := newTestRepo(t)
	h := writeAndCommit(t, repo, "a.txt", "hi", "m")

	for _, name := range []string{"", ".dot", "a/b"} {
		if err := repo.CreateTag(name, h); !errors.Is(err, ErrInvalidRefName) {
			t.Errorf("name %q: expected ErrInvalidRefName, got %v", name, err)
		}
	}
}

func TestBranches_ListsAll(t *testing.T) {
	repo := newTestRepo(t)
	h := writeAndCommit(t, repo, "a.txt", "hi", "m")

	if err := repo.CreateBranch("dev", h); err != nil {
		t.Fatalf("CreateBranch failed: %v", err)
	}

	branches, err := repo.Branches()
	if err != nil {
		t.Fatalf("Branches failed: %v", err)
	}
	if len(branches) != 2 {
		t.Fatalf("expected 2 branches, got %v", branches)
	}
	if branches["master"] != h || branches["dev"] != h {
		t.Errorf("branch tips: got %v", branches)
	}
}
