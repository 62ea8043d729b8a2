package pitcore

import (
	"fmt"
	"os"
	"strings"
)

// StashPush snapshots the index and the working directory as a pair of
// commits outside the branch DAG, appends the workdir snapshot to the stash
// stack, and hard-resets the workspace to HEAD.
//
// The index snapshot's parent is HEAD (if any); the workdir snapshot's
// parents are [HEAD, index-snapshot], so a stash entry always carries both
// states and the stack needs only the workdir hash.
func (r *Repository) StashPush() (Hash, error) {
	head, err := r.HeadCommit()
	if err != nil {
		return "", err
	}

	branch, err := r.CurrentBranch()
	if err != nil {
		return "", err
	}
	context := "(no branch)"
	if branch != "" {
		context = branch
	}
	baseShort := "initial"
	if head != "" {
		baseShort = head.Short()
	}

	idx, err := r.ReadIndex()
	if err != nil {
		return "", err
	}

	// Index snapshot.
	indexTree, err := r.WriteTree(idx.Hashes())
	if err != nil {
		return "", err
	}
	var headParents []Hash
	if head != "" {
		headParents = []Hash{head}
	}
	indexCommit, err := r.writeCommitObject(
		fmt.Sprintf("index on %s: %s", context, baseShort), headParents, indexTree)
	if err != nil {
		return "", err
	}

	// Workdir snapshot: tracked and staged paths as they sit on disk.
	// Paths deleted from disk drop out of the snapshot.
	workdirFiles := make(map[string]Hash, len(idx))
	for path := range idx {
		if _, statErr := os.Stat(r.workPath(path)); statErr != nil {
			continue
		}
		h, _, _, err := r.HashWorkFile(path, true)
		if err != nil {
			return "", err
		}
		workdirFiles[path] = h
	}
	workdirTree, err := r.WriteTree(workdirFiles)
	if err != nil {
		return "", err
	}
	workdirCommit, err := r.writeCommitObject(
		fmt.Sprintf("WIP on %s: %s", context, baseShort),
		append(headParents, indexCommit), workdirTree)
	if err != nil {
		return "", err
	}

	if err := r.appendStashEntry(workdirCommit); err != nil {
		return "", err
	}

	if err := r.hardReset(head); err != nil {
		return "", err
	}
	return workdirCommit, nil
}

// StashPop restores the top stash entry: the workdir snapshot's tree goes
// back onto the working directory and the index snapshot's tree becomes the
// index. The working tree must be clean relative to HEAD. The entry is
// removed from the stack only after a successful restore.
func (r *Repository) StashPop() (Hash, error) {
	entries, err := r.StashList()
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", ErrNoStashEntries
	}

	if err := r.requireClean(); err != nil {
		return "", err
	}

	top := entries[len(entries)-1]
	stashCommit, err := r.ReadCommit(top)
	if err != nil {
		return "", err
	}
	if len(stashCommit.Parents) < 2 {
		return "", fmt.Errorf("%w: stash entry %s is missing its index snapshot", ErrCorruptObject, top.Short())
	}
	indexSnapshot := stashCommit.Parents[1]

	// Working directory: overlay the workdir snapshot over HEAD's files.
	head, err := r.HeadCommit()
	if err != nil {
		return "", err
	}
	currentFiles, err := r.CommitFiles(head)
	if err != nil {
		return "", err
	}
	workdirFiles, err := r.TreeFiles(stashCommit.Tree)
	if err != nil {
		return "", err
	}
	if err := r.SwapWorkingTree(currentFiles, workdirFiles); err != nil {
		return "", err
	}

	// Index: the second parent's tree. Stat values refresh from disk where
	// the on-disk content happens to match; otherwise they stay zeroed and
	// the next comparison re-hashes.
	indexFiles, err := r.CommitFiles(indexSnapshot)
	if err != nil {
		return "", err
	}
	idx := make(Index, len(indexFiles))
	for path, h := range indexFiles {
		if diskHash, mtimeNs, size, hashErr := r.HashWorkFile(path, false); hashErr == nil && diskHash == h {
			idx.Stage(path, h, mtimeNs, size)
		} else {
			idx.Stage(path, h, 0, 0)
		}
	}
	if err := r.WriteIndex(idx); err != nil {
		return "", err
	}

	if err := r.popStashEntry(); err != nil {
		return "", err
	}
	return top, nil
}

// StashList returns the stash stack, oldest first; the top of the stack is
// the last element.
func (r *Repository) StashList() ([]Hash, error) {
	data, err := os.ReadFile(r.stashLogPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read stash log: %w", err)
	}

	var entries []Hash
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h, err := NewHash(line)
		if err != nil {
			return nil, fmt.Errorf("invalid stash log entry: %w", err)
		}
		entries = append(entries, h)
	}
	return entries, nil
}

// StashClear deletes the whole stash stack.
func (r *Repository) StashClear() error {
	if err := os.Remove(r.stashLogPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear stash: %w", err)
	}
	return nil
}

// appendStashEntry appends one hash line to the stash log.
func (r *Repository) appendStashEntry(h Hash) error {
	entries, err := r.StashList()
	if err != nil {
		return err
	}
	entries = append(entries, h)
	return r.writeStashLog(entries)
}

// popStashEntry removes the top (last) entry from the stash log.
func (r *Repository) popStashEntry() error {
	entries, err := r.StashList()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	return r.writeStashLog(entries[:len(entries)-1])
}

func (r *Repository) writeStashLog(entries []Hash) error {
	var b strings.Builder
	for _, h := range entries {
		b.WriteString(string(h) + "\n")
	}
	return writeFileAtomic(r.stashLogPath(), []byte(b.String()))
}
