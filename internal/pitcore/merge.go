package pitcore

import (
	"fmt"
	"os"
	"strings"
)

// MergeOutcome is what the merge command reports back to the driver.
type MergeOutcome struct {
	// Commit is the merge commit hash on success, "" otherwise.
	Commit Hash
	// Result carries the per-path merge decisions, including conflicts.
	Result *MergeResult
	// AlreadyUpToDate is set when theirs is already reachable from HEAD.
	AlreadyUpToDate bool
}

// Merge merges the named branch into the current checkout. The lowest
// common ancestor serves as the three-way base. On a clean merge a
// two-parent commit is recorded; on conflicts the working tree and index
// are left mid-merge with MERGE_HEAD holding the other side, and the
// outcome's Result names the conflicted paths.
func (r *Repository) Merge(branch string) (*MergeOutcome, error) {
	theirs, err := r.BranchCommit(branch)
	if err != nil {
		return nil, err
	}
	if theirs == "" {
		return nil, fmt.Errorf("%w: branch %s has no commits", ErrUnknownRevision, branch)
	}

	ours, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	if ours == "" {
		return nil, fmt.Errorf("%w: HEAD has no commits yet", ErrUnknownRevision)
	}

	if err := r.requireClean(); err != nil {
		return nil, err
	}

	base, err := r.MergeBase(ours, theirs)
	if err != nil {
		return nil, err
	}
	if base == theirs {
		return &MergeOutcome{AlreadyUpToDate: true}, nil
	}

	result, err := r.MergeTrees(base, ours, theirs)
	if err != nil {
		return nil, err
	}
	if err := r.ApplyMergeResult(result); err != nil {
		return nil, err
	}

	if !result.Clean() {
		if err := writeFileAtomic(r.mergeHeadPath(), []byte(string(theirs)+"\n")); err != nil {
			return nil, err
		}
		return &MergeOutcome{Result: result}, nil
	}

	message := fmt.Sprintf("Merge branch '%s'", branch)
	commitHash, err := r.commitIndexAs(message, []Hash{ours, theirs})
	if err != nil {
		return nil, err
	}
	r.clearMergeHead()
	return &MergeOutcome{Commit: commitHash, Result: result}, nil
}

// MergeHead returns the commit recorded in MERGE_HEAD, or "" when no merge
// is in progress.
func (r *Repository) MergeHead() Hash {
	content, err := os.ReadFile(r.mergeHeadPath())
	if err != nil {
		return ""
	}
	h, err := NewHash(strings.TrimSpace(string(content)))
	if err != nil {
		return ""
	}
	return h
}

// clearMergeHead removes the transient MERGE_HEAD file if present.
func (r *Repository) clearMergeHead() {
	_ = os.Remove(r.mergeHeadPath())
}
