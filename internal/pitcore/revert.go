package pitcore

import "fmt"

// Revert undoes the changes a single commit introduced over its first
// parent: added paths are removed, deleted paths restored, and modified
// paths returned to the parent's version, in both the working tree and the
// index. A one-parent commit records the inversion with a
// `Revert "<subject>"` message. Root commits cannot be reverted.
func (r *Repository) Revert(rev string) (Hash, error) {
	target, err := r.ResolveRevision(rev)
	if err != nil {
		return "", err
	}
	targetCommit, err := r.ReadCommit(target)
	if err != nil {
		return "", err
	}
	parent := targetCommit.FirstParent()
	if parent == "" {
		return "", fmt.Errorf("cannot revert root commit %s", target.Short())
	}

	head, err := r.HeadCommit()
	if err != nil {
		return "", err
	}
	if head == "" {
		return "", fmt.Errorf("%w: HEAD has no commits yet", ErrUnknownRevision)
	}

	parentFiles, err := r.CommitFiles(parent)
	if err != nil {
		return "", err
	}
	targetFiles, err := r.CommitFiles(target)
	if err != nil {
		return "", err
	}

	idx, err := r.ReadIndex()
	if err != nil {
		return "", err
	}

	// Walk the parent(C) -> C change set and apply its inverse.
	for path, newHash := range targetFiles {
		oldHash, existed := parentFiles[path]
		switch {
		case !existed:
			// Added by C: remove.
			if err := r.removeWorkFile(path); err != nil {
				return "", err
			}
			idx.Unstage(path)
		case oldHash != newHash:
			// Modified by C: restore the parent version.
			if err := r.materializeBlob(path, oldHash); err != nil {
				return "", err
			}
			mtimeNs, size := r.statWorkFile(path)
			idx.Stage(path, oldHash, mtimeNs, size)
		}
	}
	for path, oldHash := range parentFiles {
		if _, stillThere := targetFiles[path]; !stillThere {
			// Deleted by C: restore.
			if err := r.materializeBlob(path, oldHash); err != nil {
				return "", err
			}
			mtimeNs, size := r.statWorkFile(path)
			idx.Stage(path, oldHash, mtimeNs, size)
		}
	}

	if err := r.WriteIndex(idx); err != nil {
		return "", err
	}

	message := fmt.Sprintf("Revert %q\n\nThis reverts commit %s.", targetCommit.Subject(), target)
	return r.commitIndexAs(message, []Hash{head})
}
