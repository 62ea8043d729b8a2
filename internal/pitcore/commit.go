package pitcore

import (
	"fmt"
	"time"
)

// Commit snapshots the staged index as a new commit on the current
// checkout. The index must be non-empty and must differ from HEAD's tree,
// and a user identity must be configured. The attached branch ref (or HEAD
// itself when detached) advances to the new commit.
func (r *Repository) Commit(message string) (Hash, error) {
	idx, err := r.ReadIndex()
	if err != nil {
		return "", err
	}
	if len(idx) == 0 {
		return "", fmt.Errorf("%w: index is empty", ErrNothingToCommit)
	}

	treeHash, err := r.WriteTree(idx.Hashes())
	if err != nil {
		return "", err
	}

	head, err := r.HeadCommit()
	if err != nil {
		return "", err
	}
	if head != "" {
		headCommit, err := r.ReadCommit(head)
		if err != nil {
			return "", err
		}
		if headCommit.Tree == treeHash {
			return "", fmt.Errorf("%w: working tree clean", ErrNothingToCommit)
		}
	}

	var parents []Hash
	if head != "" {
		parents = []Hash{head}
	}
	return r.createCommit(message, parents, treeHash)
}

// createCommit assembles and stores a commit object for an already-written
// tree, then advances the current checkout to it. Shared by commit, merge,
// cherry-pick, revert, and the rebase replay loop.
func (r *Repository) createCommit(message string, parents []Hash, treeHash Hash) (Hash, error) {
	commitHash, err := r.writeCommitObject(message, parents, treeHash)
	if err != nil {
		return "", err
	}
	if err := r.advanceHead(commitHash); err != nil {
		return "", err
	}
	return commitHash, nil
}

// writeCommitObject stores a commit object without moving any ref. The
// stash machinery uses this directly for its out-of-DAG snapshots.
func (r *Repository) writeCommitObject(message string, parents []Hash, treeHash Hash) (Hash, error) {
	config, err := r.LoadConfig()
	if err != nil {
		return "", err
	}
	name, email, err := config.Identity()
	if err != nil {
		return "", err
	}

	sig := Signature{Name: name, Email: email, When: time.Now()}
	commit := &Commit{
		Tree:      treeHash,
		Parents:   parents,
		Author:    sig,
		Committer: sig,
		Message:   message,
	}
	return r.HashObject(EncodeCommit(commit), CommitObject, true)
}

// commitIndexAs writes the current index as a tree and commits it with the
// given message and parents, without the nothing-to-commit checks. Used by
// the merge-family commands that have already mutated the index.
func (r *Repository) commitIndexAs(message string, parents []Hash) (Hash, error) {
	idx, err := r.ReadIndex()
	if err != nil {
		return "", err
	}
	treeHash, err := r.WriteTree(idx.Hashes())
	if err != nil {
		return "", err
	}
	return r.createCommit(message, parents, treeHash)
}
