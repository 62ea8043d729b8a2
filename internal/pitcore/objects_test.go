package pitcore

import (
	"errors"
	"strings"
	"testing"
)

func TestHashObject_KnownBlobHash(t *testing.T) {
	repo := newTestRepo(t)

	// SHA-1 of "blob 0\x00" is the well-known empty blob hash.
	h, err := repo.HashObject(nil, BlobObject, false)
	if err != nil {
		t.Fatalf("HashObject failed: %v", err)
	}
	if h != Hash("e69de29bb2d1d6434b8b29ae775ad8c2e48c5391") {
		t.Errorf("empty blob hash: got %s", h)
	}
}

func TestHashObject_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	payload := []byte("the quick brown fox")

	h, err := repo.HashObject(payload, BlobObject, true)
	if err != nil {
		t.Fatalf("HashObject failed: %v", err)
	}

	kind, got, err := repo.ReadObject(h)
	if err != nil {
		t.Fatalf("ReadObject failed: %v", err)
	}
	if kind != BlobObject {
		t.Errorf("kind: got %s, want blob", kind)
	}
	if string(got) != string(payload) {
		t.Errorf("payload: got %q, want %q", got, payload)
	}
}

func TestHashObject_NoPersistDoesNotWrite(t *testing.T) {
	repo := newTestRepo(t)

	h, err := repo.HashObject([]byte("ephemeral"), BlobObject, false)
	if err != nil {
		t.Fatalf("HashObject failed: %v", err)
	}
	if repo.HasObject(h) {
		t.Errorf("object %s was written despite persist=false", h)
	}
}

func TestHashObject_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	payload := []byte("same content")

	h1, err := repo.HashObject(payload, BlobObject, true)
	if err != nil {
		t.Fatalf("first HashObject failed: %v", err)
	}
	h2, err := repo.HashObject(payload, BlobObject, true)
	if err != nil {
		t.Fatalf("second HashObject failed: %v", err)
	}
	if h1 != h2 {
		t.Errorf("hashes differ: %s vs %s", h1, h2)
	}
}

func TestReadObject_Missing(t *testing.T) {
	repo := newTestRepo(t)

	_, _, err := repo.ReadObject(Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
	if !errors.Is(err, ErrObjectMissing) {
		t.Errorf("expected ErrObjectMissing, got %v", err)
	}
}

func TestResolvePrefix(t *testing.T) {
	repo := newTestRepo(t)

	h, err := repo.HashObject([]byte("prefix me"), BlobObject, true)
	if err != nil {
		t.Fatalf("HashObject failed: %v", err)
	}

	t.Run("unique prefix resolves", func(t *testing.T) {
		got, err := repo.ResolvePrefix(string(h)[:8])
		if err != nil {
			t.Fatalf("ResolvePrefix failed: %v", err)
		}
		if got != h {
			t.Errorf("got %s, want %s", got, h)
		}
	})

	t.Run("unknown prefix", func(t *testing.T) {
		_, err := repo.ResolvePrefix("deadbeef")
		if !errors.Is(err, ErrUnknownRevision) {
			t.Errorf("expected ErrUnknownRevision, got %v", err)
		}
	})

	t.Run("too short", func(t *testing.T) {
		_, err := repo.ResolvePrefix("abc")
		if !errors.Is(err, ErrUnknownRevision) {
			t.Errorf("expected ErrUnknownRevision, got %v", err)
		}
	})
}

func TestParseCommit_NoParents(t *testing.T) {
	body := []byte("tree aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\nauthor Test User <test@example.com> 1700000000 +0000\ncommitter Test User <test@example.com> 1700000000 +0000\n\nInitial commit")
	id := Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	c, err := ParseCommit(body, id)
	if err != nil {
		t.Fatalf("ParseCommit failed: %v", err)
	}
	if c.Tree != Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa") {
		t.Errorf("Tree: got %s", c.Tree)
	}
	if len(c.Parents) != 0 {
		t.Errorf("Parents: expected 0, got %d", len(c.Parents))
	}
	if c.Author.Name != "Test User" {
		t.Errorf("Author.Name: got %q", c.Author.Name)
	}
	if c.Message != "Initial commit" {
		t.Errorf("Message: got %q", c.Message)
	}
}

func TestParseCommit_MergeParents(t *testing.T) {
	body := []byte("tree aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\nparent cccccccccccccccccccccccccccccccccccccccc\nparent dddddddddddddddddddddddddddddddddddddddd\nauthor Test User <test@example.com> 1700000000 +0000\ncommitter Test User <test@example.com> 1700000000 +0000\n\nMerge commit")
	c, err := ParseCommit(body, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	if err != nil {
		t.Fatalf("ParseCommit failed: %v", err)
	}
	if len(c.Parents) != 2 {
		t.Fatalf("Parents: expected 2, got %d", len(c.Parents))
	}
	if c.Parents[0] != Hash("cccccccccccccccccccccccccccccccccccccccc") {
		t.Errorf("Parent[0]: got %s", c.Parents[0])
	}
}

func TestEncodeCommit_RoundTrip(t *testing.T) {
	c := &Commit{
		Tree:    Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Parents: []Hash{"cccccccccccccccccccccccccccccccccccccccc"},
		Author:  mustSignature(t, "Test User <test@example.com> 1700000000 +0000"),
		Committer: mustSignature(t,
			"Test User <test@example.com> 1700000000 +0000"),
		Message: "round trip\n\nbody line",
	}

	parsed, err := ParseCommit(EncodeCommit(c), "")
	if err != nil {
		t.Fatalf("ParseCommit failed: %v", err)
	}
	if parsed.Tree != c.Tree {
		t.Errorf("Tree: got %s", parsed.Tree)
	}
	if len(parsed.Parents) != 1 || parsed.Parents[0] != c.Parents[0] {
		t.Errorf("Parents: got %v", parsed.Parents)
	}
	if parsed.Message != c.Message {
		t.Errorf("Message: got %q, want %q", parsed.Message, c.Message)
	}
	if parsed.Author.When.Unix() != 1700000000 {
		t.Errorf("Author timestamp: got %d", parsed.Author.When.Unix())
	}
}

func TestParseTree(t *testing.T) {
	payload := []byte(strings.Join([]string{
		"040000 tree bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb\tsubdir",
		"100644 blob aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\tfile with spaces.txt",
	}, "\n"))

	tree, err := ParseTree(payload, "dddddddddddddddddddddddddddddddddddddddd")
	if err != nil {
		t.Fatalf("ParseTree failed: %v", err)
	}
	if len(tree.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(tree.Entries))
	}
	if !tree.Entries[0].IsTree() || tree.Entries[0].Name != "subdir" {
		t.Errorf("entry 0: got %+v", tree.Entries[0])
	}
	if tree.Entries[1].Kind != "blob" || tree.Entries[1].Name != "file with spaces.txt" {
		t.Errorf("entry 1: got %+v", tree.Entries[1])
	}
}

func TestEncodeTree_SortsByName(t *testing.T) {
	entries := []TreeEntry{
		{Mode: "100644", Kind: "blob", ID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Name: "zebra"},
		{Mode: "100644", Kind: "blob", ID: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", Name: "apple"},
	}
	payload := string(EncodeTree(entries))

	if !strings.HasPrefix(payload, "100644 blob bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb\tapple") {
		t.Errorf("entries not sorted: %q", payload)
	}
}

func mustSignature(t *testing.T, line string) Signature {
	t.Helper()
	sig, err := NewSignature(line)
	if err != nil {
		t.Fatalf("NewSignature(%q) failed: %v", line, err)
	}
	return sig
}
