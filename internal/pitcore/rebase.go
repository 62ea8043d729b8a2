package pitcore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RebaseOutcome is what a rebase start or continue reports to the driver.
type RebaseOutcome struct {
	// Done is set when the rebase ran to completion (or there was nothing
	// to replay).
	Done bool
	// UpToDate is set when no commits needed replaying.
	UpToDate bool
	// Branch is the rebased branch name when Done.
	Branch string
	// Head is the final HEAD commit when Done.
	Head Hash
	// ConflictCommit is the commit whose replay conflicted, when not Done.
	ConflictCommit Hash
	// Conflicts lists the conflicted paths, when not Done.
	Conflicts []string
}

// rebaseState is the persisted resume state under .pit/rebase-apply/.
type rebaseState struct {
	headName string // attached branch name prior to rebase
	origHead Hash   // HEAD prior to rebase
	commits  []Hash // unreplayed commits, in replay order
}

// RebaseInProgress reports whether a rebase state directory exists.
func (r *Repository) RebaseInProgress() bool {
	info, err := os.Stat(r.rebaseDir())
	return err == nil && info.IsDir()
}

// RebaseStart replays the current branch's unique commits on top of
// upstream. The commits to replay are those reachable from HEAD but not
// from upstream, excluding merges, in topological order. The working tree
// is hard-reset to upstream with HEAD detached there, state is persisted
// for --continue/--abort, and the replay loop runs until completion or the
// first conflict.
func (r *Repository) RebaseStart(upstreamRev string) (*RebaseOutcome, error) {
	if r.RebaseInProgress() {
		return nil, ErrRebaseInProgress
	}
	if err := r.requireClean(); err != nil {
		return nil, err
	}

	branch, err := r.CurrentBranch()
	if err != nil {
		return nil, err
	}
	if branch == "" {
		return nil, fmt.Errorf("cannot rebase: HEAD is detached")
	}

	upstream, err := r.ResolveRevision(upstreamRev)
	if err != nil {
		return nil, err
	}
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	if head == "" {
		return nil, fmt.Errorf("%w: HEAD has no commits yet", ErrUnknownRevision)
	}

	headReachable, err := r.ReachableSet(head)
	if err != nil {
		return nil, err
	}
	upstreamReachable, err := r.ReachableSet(upstream)
	if err != nil {
		return nil, err
	}

	// Unique commits, linearized: merge commits never replay.
	replaySet := make(map[Hash]bool)
	for c := range headReachable {
		if upstreamReachable[c] {
			continue
		}
		parents, err := r.Parents(c)
		if err != nil {
			return nil, err
		}
		if len(parents) <= 1 {
			replaySet[c] = true
		}
	}

	if len(replaySet) == 0 {
		return &RebaseOutcome{Done: true, UpToDate: true, Branch: branch, Head: head}, nil
	}

	commits, err := r.TopoSort(replaySet)
	if err != nil {
		return nil, err
	}

	state := &rebaseState{headName: branch, origHead: head, commits: commits}
	if err := r.saveRebaseState(state); err != nil {
		return nil, err
	}

	if err := r.hardReset(upstream); err != nil {
		return nil, err
	}
	if err := r.DetachHead(upstream); err != nil {
		return nil, err
	}

	return r.replayLoop()
}

// RebaseContinue resumes a conflicted rebase. The staged resolution is
// committed with the pending commit's message; when the user already
// committed the resolution themselves (index matches HEAD), the pending
// entry is simply popped. The replay loop then resumes.
func (r *Repository) RebaseContinue() (*RebaseOutcome, error) {
	state, err := r.loadRebaseState()
	if err != nil {
		return nil, err
	}

	if len(state.commits) > 0 {
		pending, err := r.ReadCommit(state.commits[0])
		if err != nil {
			return nil, err
		}

		staged, err := r.indexDiffersFromHead()
		if err != nil {
			return nil, err
		}
		if staged {
			head, err := r.HeadCommit()
			if err != nil {
				return nil, err
			}
			var parents []Hash
			if head != "" {
				parents = []Hash{head}
			}
			if _, err := r.commitIndexAs(pending.Message, parents); err != nil {
				return nil, err
			}
		}
		if err := r.popRebaseCommit(); err != nil {
			return nil, err
		}
	}

	return r.replayLoop()
}

// RebaseAbort hard-resets to the pre-rebase HEAD, reattaches the original
// branch, and removes the state directory.
func (r *Repository) RebaseAbort() error {
	state, err := r.loadRebaseState()
	if err != nil {
		return err
	}

	if err := r.hardReset(state.origHead); err != nil {
		return err
	}
	if err := writeFileAtomic(r.branchPath(state.headName), []byte(string(state.origHead)+"\n")); err != nil {
		return err
	}
	if err := r.SetHeadBranch(state.headName); err != nil {
		return err
	}
	return os.RemoveAll(r.rebaseDir())
}

// replayLoop replays the remaining recorded commits one by one, stopping at
// the first conflict or finishing the rebase.
func (r *Repository) replayLoop() (*RebaseOutcome, error) {
	for {
		state, err := r.loadRebaseState()
		if err != nil {
			return nil, err
		}
		if len(state.commits) == 0 {
			return r.finishRebase(state)
		}

		next := state.commits[0]
		commit, err := r.ReadCommit(next)
		if err != nil {
			return nil, err
		}

		head, err := r.HeadCommit()
		if err != nil {
			return nil, err
		}

		result, err := r.MergeTrees(commit.FirstParent(), head, next)
		if err != nil {
			return nil, err
		}
		if err := r.ApplyMergeResult(result); err != nil {
			return nil, err
		}

		if !result.Clean() {
			return &RebaseOutcome{ConflictCommit: next, Conflicts: result.Conflicts}, nil
		}

		// A commit whose changes are already present upstream replays to
		// an identical tree; skip it rather than recording an empty commit.
		changed, err := r.indexDiffersFromHead()
		if err != nil {
			return nil, err
		}
		if changed {
			var parents []Hash
			if head != "" {
				parents = []Hash{head}
			}
			if _, err := r.commitIndexAs(commit.Message, parents); err != nil {
				return nil, err
			}
		}
		if err := r.popRebaseCommit(); err != nil {
			return nil, err
		}
	}
}

// finishRebase points the original branch at the replayed HEAD, reattaches
// it, and removes the state directory.
func (r *Repository) finishRebase(state *rebaseState) (*RebaseOutcome, error) {
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(r.branchPath(state.headName), []byte(string(head)+"\n")); err != nil {
		return nil, err
	}
	if err := r.SetHeadBranch(state.headName); err != nil {
		return nil, err
	}
	if err := os.RemoveAll(r.rebaseDir()); err != nil {
		return nil, err
	}
	return &RebaseOutcome{Done: true, Branch: state.headName, Head: head}, nil
}

// indexDiffersFromHead reports whether the index tree differs from HEAD's
// tree (i.e., there is something to commit).
func (r *Repository) indexDiffersFromHead() (bool, error) {
	idx, err := r.ReadIndex()
	if err != nil {
		return false, err
	}
	head, err := r.HeadCommit()
	if err != nil {
		return false, err
	}
	headFiles, err := r.CommitFiles(head)
	if err != nil {
		return false, err
	}

	indexFiles := idx.Hashes()
	if len(indexFiles) != len(headFiles) {
		return true, nil
	}
	for path, h := range indexFiles {
		if headFiles[path] != h {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) saveRebaseState(state *rebaseState) error {
	if err := os.MkdirAll(r.rebaseDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create rebase state directory: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(r.rebaseDir(), "head-name"), []byte(state.headName+"\n")); err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(r.rebaseDir(), "orig-head"), []byte(string(state.origHead)+"\n")); err != nil {
		return err
	}
	return r.saveRebaseCommits(state.commits)
}

func (r *Repository) saveRebaseCommits(commits []Hash) error {
	var b strings.Builder
	for _, c := range commits {
		b.WriteString(string(c) + "\n")
	}
	return writeFileAtomic(filepath.Join(r.rebaseDir(), "commits"), []byte(b.String()))
}

func (r *Repository) loadRebaseState() (*rebaseState, error) {
	if !r.RebaseInProgress() {
		return nil, ErrNoRebaseInProgress
	}

	headName, err := os.ReadFile(filepath.Join(r.rebaseDir(), "head-name"))
	if err != nil {
		return nil, fmt.Errorf("failed to read rebase state: %w", err)
	}
	origHeadRaw, err := os.ReadFile(filepath.Join(r.rebaseDir(), "orig-head"))
	if err != nil {
		return nil, fmt.Errorf("failed to read rebase state: %w", err)
	}
	origHead, err := NewHash(strings.TrimSpace(string(origHeadRaw)))
	if err != nil {
		return nil, fmt.Errorf("invalid orig-head: %w", err)
	}

	state := &rebaseState{
		headName: strings.TrimSpace(string(headName)),
		origHead: origHead,
	}

	commitsRaw, err := os.ReadFile(filepath.Join(r.rebaseDir(), "commits"))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read rebase state: %w", err)
	}
	for _, line := range strings.Split(string(commitsRaw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h, err := NewHash(line)
		if err != nil {
			return nil, fmt.Errorf("invalid commit in rebase state: %w", err)
		}
		state.commits = append(state.commits, h)
	}
	return state, nil
}

// popRebaseCommit removes the head entry from the persisted replay list.
func (r *Repository) popRebaseCommit() error {
	state, err := r.loadRebaseState()
	if err != nil {
		return err
	}
	if len(state.commits) == 0 {
		return nil
	}
	return r.saveRebaseCommits(state.commits[1:])
}
