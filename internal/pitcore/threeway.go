package pitcore

import (
	"fmt"
	"sort"
	"strings"
)

// MergeResult is the outcome of a three-way tree merge. Conflicts are a
// normal outcome, not an error: Clean reports whether every path merged.
type MergeResult struct {
	// Files is the merged path-to-blob-hash map for all cleanly merged
	// paths. Paths deleted by the merge are absent.
	Files map[string]Hash
	// Conflicts lists the conflicted paths in sorted order.
	Conflicts []string
	// ours and theirs record the side hashes for each conflicted path so
	// the conflict file can be materialized later.
	ours   map[string]Hash
	theirs map[string]Hash
}

// Clean reports whether the merge produced no conflicts.
func (m *MergeResult) Clean() bool {
	return len(m.Conflicts) == 0
}

// MergeTrees merges the file sets of two commits over a common base at
// whole-blob granularity. Any of the three commits may be "" (an empty
// tree). For each path, a side that matches the base yields to the other
// side; both sides agreeing keeps their shared content; both sides
// diverging from the base is a conflict.
func (r *Repository) MergeTrees(base, ours, theirs Hash) (*MergeResult, error) {
	baseFiles, err := r.CommitFiles(base)
	if err != nil {
		return nil, fmt.Errorf("failed to load base tree: %w", err)
	}
	oursFiles, err := r.CommitFiles(ours)
	if err != nil {
		return nil, fmt.Errorf("failed to load ours tree: %w", err)
	}
	theirsFiles, err := r.CommitFiles(theirs)
	if err != nil {
		return nil, fmt.Errorf("failed to load theirs tree: %w", err)
	}

	return mergeFileMaps(baseFiles, oursFiles, theirsFiles), nil
}

// mergeFileMaps applies the three-way decision table to the union of all
// paths across base, ours, and theirs.
func mergeFileMaps(base, ours, theirs map[string]Hash) *MergeResult {
	result := &MergeResult{
		Files:  make(map[string]Hash),
		ours:   make(map[string]Hash),
		theirs: make(map[string]Hash),
	}

	allPaths := make(map[string]struct{}, len(base)+len(ours)+len(theirs))
	for path := range base {
		allPaths[path] = struct{}{}
	}
	for path := range ours {
		allPaths[path] = struct{}{}
	}
	for path := range theirs {
		allPaths[path] = struct{}{}
	}

	for path := range allPaths {
		b, inBase := base[path]
		o, inOurs := ours[path]
		t, inTheirs := theirs[path]

		switch {
		case inOurs == inTheirs && o == t:
			// Both sides agree (same content, or both deleted).
			if inOurs {
				result.Files[path] = o
			}

		case inBase && b == o || !inBase && !inOurs:
			// Ours is unchanged from base; theirs decides.
			if inTheirs {
				result.Files[path] = t
			}

		case inBase && b == t || !inBase && !inTheirs:
			// Theirs is unchanged from base; ours decides.
			if inOurs {
				result.Files[path] = o
			}

		default:
			result.Conflicts = append(result.Conflicts, path)
			result.ours[path] = o   // "" when absent on our side
			result.theirs[path] = t // "" when absent on their side
		}
	}

	sort.Strings(result.Conflicts)
	return result
}

// ApplyMergeResult brings the working directory and index in line with a
// merge result. Cleanly merged paths are materialized and staged; paths the
// merge deleted are removed; conflicted paths get a conflict-marker file on
// disk and keep their pre-merge index entry so the user resolves and
// re-stages them.
func (r *Repository) ApplyMergeResult(result *MergeResult) error {
	idx, err := r.ReadIndex()
	if err != nil {
		return err
	}

	conflicted := make(map[string]bool, len(result.Conflicts))
	for _, path := range result.Conflicts {
		conflicted[path] = true
	}

	// Drop tracked paths that the merge deleted.
	for path := range idx {
		if _, keep := result.Files[path]; !keep && !conflicted[path] {
			if err := r.removeWorkFile(path); err != nil {
				return err
			}
			idx.Unstage(path)
		}
	}

	for path, h := range result.Files {
		if err := r.materializeBlob(path, h); err != nil {
			return err
		}
		mtimeNs, size := r.statWorkFile(path)
		idx.Stage(path, h, mtimeNs, size)
	}

	for _, path := range result.Conflicts {
		content, err := r.conflictFileContent(path, result.ours[path], result.theirs[path])
		if err != nil {
			return err
		}
		if err := r.writeWorkFile(path, content); err != nil {
			return err
		}
	}

	return r.WriteIndex(idx)
}

// conflictFileContent builds the conflict-marker block written to the
// working tree for one conflicted path.
func (r *Repository) conflictFileContent(path string, oursHash, theirsHash Hash) ([]byte, error) {
	var b strings.Builder

	b.WriteString("<<<<<<< HEAD\n")
	if oursHash != "" {
		content, err := r.ReadBlob(oursHash)
		if err != nil {
			return nil, fmt.Errorf("failed to read ours blob for %s: %w", path, err)
		}
		b.Write(content)
		if len(content) > 0 && content[len(content)-1] != '\n' {
			b.WriteByte('\n')
		}
	} else {
		b.WriteString("(file does not exist in HEAD)\n")
	}

	b.WriteString("=======\n")
	if theirsHash != "" {
		content, err := r.ReadBlob(theirsHash)
		if err != nil {
			return nil, fmt.Errorf("failed to read theirs blob for %s: %w", path, err)
		}
		b.Write(content)
		if len(content) > 0 && content[len(content)-1] != '\n' {
			b.WriteByte('\n')
		}
	} else {
		b.WriteString("(file does not exist in merge branch)\n")
	}

	b.WriteString(">>>>>>> " + path + "\n")
	return []byte(b.String()), nil
}
