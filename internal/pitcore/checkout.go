package pitcore

import (
	"fmt"
	"os"
)

// CheckoutBranch switches the working directory, index, and HEAD to the
// named branch. The working tree must be clean. Switching to the branch
// HEAD is already attached to is a no-op.
func (r *Repository) CheckoutBranch(name string) error {
	targetCommit, err := r.BranchCommit(name)
	if err != nil {
		return err
	}

	current, err := r.CurrentBranch()
	if err != nil {
		return err
	}
	if current == name {
		return nil
	}

	if err := r.requireClean(); err != nil {
		return err
	}

	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	currentFiles, err := r.CommitFiles(head)
	if err != nil {
		return err
	}
	targetFiles, err := r.CommitFiles(targetCommit)
	if err != nil {
		return err
	}

	if err := r.SwapWorkingTree(currentFiles, targetFiles); err != nil {
		return err
	}
	if err := r.resetIndexTo(targetFiles); err != nil {
		return err
	}
	return r.SetHeadBranch(name)
}

// CreateAndCheckoutBranch creates a branch at HEAD and switches to it.
func (r *Repository) CreateAndCheckoutBranch(name string) error {
	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	if head == "" {
		return fmt.Errorf("%w: no commits to branch from", ErrUnknownRevision)
	}
	if err := r.CreateBranch(name, head); err != nil {
		return err
	}
	return r.CheckoutBranch(name)
}

// CheckoutPaths restores the given files from the HEAD tree into the
// working directory, refreshing each restored entry's index stat cache.
// Paths not present in HEAD are an error.
func (r *Repository) CheckoutPaths(paths []string) error {
	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	if head == "" {
		return fmt.Errorf("%w: HEAD has no commits yet", ErrUnknownRevision)
	}
	headFiles, err := r.CommitFiles(head)
	if err != nil {
		return err
	}

	idx, err := r.ReadIndex()
	if err != nil {
		return err
	}

	for _, arg := range paths {
		relPath, err := r.relWorkPath(arg)
		if err != nil {
			return err
		}
		h, tracked := headFiles[relPath]
		if !tracked {
			return fmt.Errorf("pathspec %q did not match any file in HEAD", arg)
		}
		if err := r.materializeBlob(relPath, h); err != nil {
			return err
		}
		mtimeNs, size := r.statWorkFile(relPath)
		idx.Stage(relPath, h, mtimeNs, size)
	}

	return r.WriteIndex(idx)
}

// IsBranch reports whether the given name refers to an existing branch.
func (r *Repository) IsBranch(name string) bool {
	_, err := os.Stat(r.branchPath(name))
	return err == nil
}
