package pitcore

import "fmt"

// CherryPick applies the changes a single commit introduced over its first
// parent onto the current checkout as a new one-parent commit reusing the
// original message. Merge commits are rejected. On conflicts the working
// tree is left for manual resolution and the outcome's Result names the
// conflicted paths.
func (r *Repository) CherryPick(rev string) (*MergeOutcome, error) {
	target, err := r.ResolveRevision(rev)
	if err != nil {
		return nil, err
	}
	targetCommit, err := r.ReadCommit(target)
	if err != nil {
		return nil, err
	}
	if len(targetCommit.Parents) > 1 {
		return nil, fmt.Errorf("commit %s is a merge; cherry-picking merges is not supported", target.Short())
	}

	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	if head == "" {
		return nil, fmt.Errorf("%w: HEAD has no commits yet", ErrUnknownRevision)
	}

	// The changes to transplant are parent(C) -> C, so the first parent is
	// the three-way base and C is the theirs side.
	result, err := r.MergeTrees(targetCommit.FirstParent(), head, target)
	if err != nil {
		return nil, err
	}
	if err := r.ApplyMergeResult(result); err != nil {
		return nil, err
	}

	if !result.Clean() {
		return &MergeOutcome{Result: result}, nil
	}

	commitHash, err := r.commitIndexAs(targetCommit.Message, []Hash{head})
	if err != nil {
		return nil, err
	}
	return &MergeOutcome{Commit: commitHash, Result: result}, nil
}
