package pitcore

import (
	"os"
	"strings"
	"testing"
)

func TestIndex_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	idx := make(Index)
	idx.Stage("b.txt", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", 1234, 5)
	idx.Stage("a.txt", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 5678, 9)

	if err := repo.WriteIndex(idx); err != nil {
		t.Fatalf("WriteIndex failed: %v", err)
	}

	got, err := repo.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	entry := got["a.txt"]
	if entry.Hash != Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa") || entry.MtimeNs != 5678 || entry.Size != 9 {
		t.Errorf("a.txt entry: got %+v", entry)
	}
}

func TestIndex_WritesSortedCurrentFormat(t *testing.T) {
	repo := newTestRepo(t)

	idx := make(Index)
	idx.Stage("z.txt", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 1, 2)
	idx.Stage("a.txt", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", 3, 4)
	if err := repo.WriteIndex(idx); err != nil {
		t.Fatalf("WriteIndex failed: %v", err)
	}

	raw, err := os.ReadFile(repo.PitDir() + "/index")
	if err != nil {
		t.Fatalf("reading raw index failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb 3 4 a.txt" {
		t.Errorf("line 0: got %q", lines[0])
	}
	if lines[1] != "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa 1 2 z.txt" {
		t.Errorf("line 1: got %q", lines[1])
	}
}

func TestIndex_AcceptsLegacyFormat(t *testing.T) {
	repo := newTestRepo(t)

	legacy := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa path with spaces.txt\n" +
		"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb 100 200 cached.txt\n"
	if err := os.WriteFile(repo.PitDir()+"/index", []byte(legacy), 0o644); err != nil {
		t.Fatalf("writing legacy index failed: %v", err)
	}

	idx, err := repo.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex failed: %v", err)
	}

	legacyEntry, ok := idx["path with spaces.txt"]
	if !ok {
		t.Fatalf("legacy entry missing; have %v", idx)
	}
	if legacyEntry.MtimeNs != 0 || legacyEntry.Size != 0 {
		t.Errorf("legacy stat cache should be zeroed: %+v", legacyEntry)
	}

	cached, ok := idx["cached.txt"]
	if !ok {
		t.Fatalf("current-format entry missing")
	}
	if cached.MtimeNs != 100 || cached.Size != 200 {
		t.Errorf("current-format stat cache: got %+v", cached)
	}
}

func TestIndex_MissingFileIsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	if err := os.Remove(repo.PitDir() + "/index"); err != nil {
		t.Fatalf("removing index failed: %v", err)
	}

	idx, err := repo.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex failed: %v", err)
	}
	if len(idx) != 0 {
		t.Errorf("expected empty index, got %d entries", len(idx))
	}
}

func TestIndex_Unstage(t *testing.T) {
	idx := make(Index)
	idx.Stage("a.txt", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 0, 0)
	idx.Unstage("a.txt")
	idx.Unstage("absent.txt") // no-op

	if len(idx) != 0 {
		t.Errorf("expected empty index, got %d entries", len(idx))
	}
}
