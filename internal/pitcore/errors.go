package pitcore

import "errors"

// Sentinel errors surfaced at the core boundary. The CLI driver maps these
// to user-facing messages and exit codes with errors.Is.
var (
	// ErrNotARepository means no .pit directory was found walking up from
	// the starting path.
	ErrNotARepository = errors.New("not a pit repository")

	// ErrObjectMissing means a requested object is absent from the store.
	ErrObjectMissing = errors.New("object not found")

	// ErrCorruptObject means an object was found but could not be
	// decompressed or its header is malformed.
	ErrCorruptObject = errors.New("corrupt object")

	// ErrAmbiguousPrefix means a hash prefix matched more than one object.
	ErrAmbiguousPrefix = errors.New("ambiguous object prefix")

	// ErrUnknownRevision means a revision string resolved to nothing.
	ErrUnknownRevision = errors.New("unknown revision")

	// ErrNothingToCommit means the index is empty or matches HEAD exactly.
	ErrNothingToCommit = errors.New("nothing to commit")

	// ErrNoIdentity means user.name or user.email is not configured.
	ErrNoIdentity = errors.New("author identity unknown")

	// ErrBranchExists means branch creation targeted an existing name.
	ErrBranchExists = errors.New("branch already exists")

	// ErrUnknownBranch means a named branch does not exist.
	ErrUnknownBranch = errors.New("unknown branch")

	// ErrInvalidRefName means a branch or tag name failed validation.
	ErrInvalidRefName = errors.New("invalid ref name")

	// ErrDirtyWorkingTree means an operation requiring a clean tree found
	// uncommitted changes.
	ErrDirtyWorkingTree = errors.New("uncommitted changes in working tree")

	// ErrRebaseInProgress means a rebase state directory already exists.
	ErrRebaseInProgress = errors.New("rebase already in progress")

	// ErrNoRebaseInProgress means --continue or --abort found no rebase state.
	ErrNoRebaseInProgress = errors.New("no rebase in progress")

	// ErrNoStashEntries means the stash stack is empty.
	ErrNoStashEntries = errors.New("no stash entries")
)
