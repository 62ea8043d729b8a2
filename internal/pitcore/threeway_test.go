package pitcore

import (
	"testing"
)

// mergeCase runs mergeFileMaps over literal hash maps. Content hashes are
// stand-ins; the decision table only compares them.
func mergeCase(base, ours, theirs map[string]Hash) *MergeResult {
	return mergeFileMaps(base, ours, theirs)
}

func h(c byte) Hash {
	b := make([]byte, 40)
	for i := range b {
		b[i] = c
	}
	return Hash(b)
}

func TestMergeFileMaps_DecisionTable(t *testing.T) {
	hashA, hashB, hashC := h('a'), h('b'), h('c')

	tests := []struct {
		name         string
		base         map[string]Hash
		ours         map[string]Hash
		theirs       map[string]Hash
		wantFiles    map[string]Hash
		wantConflict []string
	}{
		{
			name:      "both sides agree keeps ours",
			base:      map[string]Hash{"f": hashA},
			ours:      map[string]Hash{"f": hashB},
			theirs:    map[string]Hash{"f": hashB},
			wantFiles: map[string]Hash{"f": hashB},
		},
		{
			name:      "absent everywhere stays absent",
			base:      map[string]Hash{},
			ours:      map[string]Hash{},
			theirs:    map[string]Hash{},
			wantFiles: map[string]Hash{},
		},
		{
			name:      "ours unchanged takes theirs",
			base:      map[string]Hash{"f": hashA},
			ours:      map[string]Hash{"f": hashA},
			theirs:    map[string]Hash{"f": hashB},
			wantFiles: map[string]Hash{"f": hashB},
		},
		{
			name:      "ours unchanged theirs deleted",
			base:      map[string]Hash{"f": hashA},
			ours:      map[string]Hash{"f": hashA},
			theirs:    map[string]Hash{},
			wantFiles: map[string]Hash{},
		},
		{
			name:      "theirs unchanged keeps ours",
			base:      map[string]Hash{"f": hashA},
			ours:      map[string]Hash{"f": hashB},
			theirs:    map[string]Hash{"f": hashA},
			wantFiles: map[string]Hash{"f": hashB},
		},
		{
			name:      "theirs unchanged ours deleted",
			base:      map[string]Hash{"f": hashA},
			ours:      map[string]Hash{},
			theirs:    map[string]Hash{"f": hashA},
			wantFiles: map[string]Hash{},
		},
		{
			name:      "added only in theirs",
			base:      map[string]Hash{},
			ours:      map[string]Hash{},
			theirs:    map[string]Hash{"f": hashB},
			wantFiles: map[string]Hash{"f": hashB},
		},
		{
			name:      "added identically on both sides",
			base:      map[string]Hash{},
			ours:      map[string]Hash{"f": hashB},
			theirs:    map[string]Hash{"f": hashB},
			wantFiles: map[string]Hash{"f": hashB},
		},
		{
			name:         "both modified differently",
			base:         map[string]Hash{"f": hashA},
			ours:         map[string]Hash{"f": hashB},
			theirs:       map[string]Hash{"f": hashC},
			wantFiles:    map[string]Hash{},
			wantConflict: []string{"f"},
		},
		{
			name:         "added differently on both sides",
			base:         map[string]Hash{},
			ours:         map[string]Hash{"f": hashB},
			theirs:       map[string]Hash{"f": hashC},
			wantFiles:    map[string]Hash{},
			wantConflict: []string{"f"},
		},
		{
			name:         "delete versus modify",
			base:         map[string]Hash{"f": hashA},
			ours:         map[string]Hash{},
			theirs:       map[string]Hash{"f": hashC},
			wantFiles:    map[string]Hash{},
			wantConflict: []string{"f"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mergeCase(tt.base, tt.ours, tt.theirs)

			if len(result.Files) != len(tt.wantFiles) {
				t.Fatalf("Files: got %v, want %v", result.Files, tt.wantFiles)
			}
			for path, want := range tt.wantFiles {
				if result.Files[path] != want {
					t.Errorf("Files[%s]: got %s, want %s", path, result.Files[path], want)
				}
			}

			if len(result.Conflicts) != len(tt.wantConflict) {
				t.Fatalf("Conflicts: got %v, want %v", result.Conflicts, tt.wantConflict)
			}
			for i, path := range tt.wantConflict {
				if result.Conflicts[i] != path {
					t.Errorf("Conflicts[%d]: got %s, want %s", i, result.Conflicts[i], path)
				}
			}
		})
	}
}

func TestMergeTrees_IndependentChanges(t *testing.T) {
	repo := newTestRepo(t)
	ancestor := writeAndCommit(t, repo, "a.txt", "x", "base")

	if err := repo.CreateBranch("side", ancestor); err != nil {
		t.Fatalf("CreateBranch failed: %v", err)
	}
	onMaster := writeAndCommit(t, repo, "b.txt", "B", "add b")

	if err := repo.CheckoutBranch("side"); err != nil {
		t.Fatalf("CheckoutBranch failed: %v", err)
	}
	onSide := writeAndCommit(t, repo, "c.txt", "C", "add c")

	result, err := repo.MergeTrees(ancestor, onMaster, onSide)
	if err != nil {
		t.Fatalf("MergeTrees failed: %v", err)
	}
	if !result.Clean() {
		t.Fatalf("expected clean merge, conflicts: %v", result.Conflicts)
	}
	for _, path := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, ok := result.Files[path]; !ok {
			t.Errorf("merged tree missing %s", path)
		}
	}
}
