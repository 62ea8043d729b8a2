package pitcore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const headsPrefix = "refs/heads/"

// HeadRef describes the resolved state of .pit/HEAD.
type HeadRef struct {
	// Branch is the branch name HEAD is attached to, or "" when detached.
	Branch string
	// Commit is the commit HEAD resolves to, or "" on an unborn branch.
	Commit Hash
	// Detached reports whether HEAD holds a bare commit hash.
	Detached bool
}

// ReadHead resolves .pit/HEAD through at most one symref hop. An attached
// HEAD whose branch file is empty resolves to an empty commit: the branch
// is unborn. A missing branch file is reported as ErrUnknownBranch.
func (r *Repository) ReadHead() (HeadRef, error) {
	content, err := os.ReadFile(r.headPath())
	if err != nil {
		return HeadRef{}, fmt.Errorf("failed to read HEAD: %w", err)
	}

	line := strings.TrimSpace(string(content))

	if target, ok := strings.CutPrefix(line, "ref: "); ok {
		name := strings.TrimPrefix(target, headsPrefix)
		h, err := r.BranchCommit(name)
		if err != nil {
			return HeadRef{}, err
		}
		return HeadRef{Branch: name, Commit: h}, nil
	}

	h, err := NewHash(line)
	if err != nil {
		return HeadRef{}, fmt.Errorf("invalid HEAD contents: %w", err)
	}
	return HeadRef{Commit: h, Detached: true}, nil
}

// HeadCommit returns the commit HEAD resolves to, or "" on an unborn branch.
func (r *Repository) HeadCommit() (Hash, error) {
	head, err := r.ReadHead()
	if err != nil {
		return "", err
	}
	return head.Commit, nil
}

// CurrentBranch returns the attached branch name, or "" when HEAD is detached.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.ReadHead()
	if err != nil {
		return "", err
	}
	return head.Branch, nil
}

// BranchCommit reads the tip commit of the named branch. A branch file that
// exists but is empty resolves to "" (unborn branch). A missing branch file
// is ErrUnknownBranch.
func (r *Repository) BranchCommit(name string) (Hash, error) {
	content, err := os.ReadFile(r.branchPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrUnknownBranch, name)
		}
		return "", fmt.Errorf("failed to read branch %s: %w", name, err)
	}

	line := strings.TrimSpace(string(content))
	if line == "" {
		return "", nil
	}
	return NewHash(line)
}

// Branches returns all branch names mapped to their tip commit hashes.
// Unborn branches map to "".
func (r *Repository) Branches() (map[string]Hash, error) {
	return r.listRefs(r.headsDir())
}

// Tags returns all tag names mapped to their target commit hashes.
func (r *Repository) Tags() (map[string]Hash, error) {
	return r.listRefs(r.tagsDir())
}

func (r *Repository) listRefs(dir string) (map[string]Hash, error) {
	result := make(map[string]Hash)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to list refs: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		line := strings.TrimSpace(string(content))
		if line == "" {
			result[entry.Name()] = ""
			continue
		}
		h, err := NewHash(line)
		if err != nil {
			continue
		}
		result[entry.Name()] = h
	}
	return result, nil
}

// CreateBranch records a new branch pointing at the given commit. Creation
// fails when the name is invalid or the branch already exists.
func (r *Repository) CreateBranch(name string, h Hash) error {
	if !validRefName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidRefName, name)
	}
	if _, err := os.Stat(r.branchPath(name)); err == nil {
		return fmt.Errorf("%w: %s", ErrBranchExists, name)
	}
	if err := writeFileAtomic(r.branchPath(name), []byte(string(h)+"\n")); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// CreateTag records a lightweight tag pointing at the given commit.
func (r *Repository) CreateTag(name string, h Hash) error {
	if !validRefName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidRefName, name)
	}
	if _, err := os.Stat(r.tagPath(name)); err == nil {
		return fmt.Errorf("tag already exists: %s", name)
	}
	if err := writeFileAtomic(r.tagPath(name), []byte(string(h)+"\n")); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}
	return nil
}

// validRefName rejects names that are empty, contain path separators, or
// begin with a dot.
func validRefName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, "/\\")
}

// SetHeadBranch attaches HEAD to the named branch.
func (r *Repository) SetHeadBranch(name string) error {
	if err := writeFileAtomic(r.headPath(), []byte("ref: "+headsPrefix+name+"\n")); err != nil {
		return fmt.Errorf("failed to update HEAD: %w", err)
	}
	return nil
}

// DetachHead points HEAD directly at a commit hash.
func (r *Repository) DetachHead(h Hash) error {
	if err := writeFileAtomic(r.headPath(), []byte(string(h)+"\n")); err != nil {
		return fmt.Errorf("failed to detach HEAD: %w", err)
	}
	return nil
}

// advanceHead moves the current checkout to the given commit: the attached
// branch ref when HEAD is symbolic, or HEAD itself when detached.
func (r *Repository) advanceHead(h Hash) error {
	head, err := r.ReadHead()
	if err != nil {
		return err
	}
	if head.Detached {
		return r.DetachHead(h)
	}
	if err := writeFileAtomic(r.branchPath(head.Branch), []byte(string(h)+"\n")); err != nil {
		return fmt.Errorf("failed to advance branch %s: %w", head.Branch, err)
	}
	return nil
}

// ResolveRevision resolves an input string to a commit hash by trying, in
// order: the literal "HEAD" (case-insensitive), a branch name, a tag name,
// a full 40-hex hash, and finally a 4-to-39 hex prefix restricted to commit
// objects.
func (r *Repository) ResolveRevision(rev string) (Hash, error) {
	if rev == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownRevision, rev)
	}

	if strings.EqualFold(rev, "HEAD") {
		h, err := r.HeadCommit()
		if err != nil {
			return "", err
		}
		if h == "" {
			return "", fmt.Errorf("%w: HEAD has no commits yet", ErrUnknownRevision)
		}
		return h, nil
	}

	if h, err := r.BranchCommit(rev); err == nil && h != "" {
		return h, nil
	}

	if content, err := os.ReadFile(r.tagPath(rev)); err == nil {
		if h, hashErr := NewHash(strings.TrimSpace(string(content))); hashErr == nil {
			return h, nil
		}
	}

	if len(rev) == 40 {
		if h, err := NewHash(rev); err == nil && r.HasObject(h) {
			if kind, _, readErr := r.ReadObject(h); readErr == nil && kind == CommitObject {
				return h, nil
			}
		}
	}

	if len(rev) >= 4 && len(rev) < 40 {
		return r.resolveCommitPrefix(rev)
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownRevision, rev)
}

// resolveCommitPrefix expands a hex prefix, accepting only commit objects.
func (r *Repository) resolveCommitPrefix(prefix string) (Hash, error) {
	h, err := r.ResolvePrefix(prefix)
	if err != nil {
		return "", err
	}
	kind, _, err := r.ReadObject(h)
	if err != nil {
		return "", err
	}
	if kind != CommitObject {
		return "", fmt.Errorf("%w: %q names a %s, not a commit", ErrUnknownRevision, prefix, kind)
	}
	return h, nil
}
