package pitcore

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var signatureRe = regexp.MustCompile("[<>]")

// Hash represents a 40-character hex-encoded SHA-1 object identifier.
type Hash string

// NewHash creates a Hash from a 40-character hex string, returning an error if invalid.
func NewHash(s string) (Hash, error) {
	if len(s) != 40 {
		return "", fmt.Errorf("invalid hash length: %d", len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("invalid hash: %w", err)
	}
	return Hash(s), nil
}

// Short returns the first 7 characters of the hash, or the full hash if shorter.
func (h Hash) Short() string {
	if len(h) < 7 {
		return string(h)
	}
	return string(h)[:7]
}

// ObjectType identifies the kind of an object in the store.
type ObjectType int

const (
	// NoneObject represents no object.
	NoneObject ObjectType = iota
	// BlobObject represents raw file content.
	BlobObject
	// TreeObject represents a directory listing.
	TreeObject
	// CommitObject represents a snapshot bound to its history.
	CommitObject
)

const (
	objectTypeBlob   = "blob"
	objectTypeTree   = "tree"
	objectTypeCommit = "commit"
)

// String returns the on-disk object type name ("blob", "tree", "commit").
func (t ObjectType) String() string {
	switch t {
	case BlobObject:
		return objectTypeBlob
	case TreeObject:
		return objectTypeTree
	case CommitObject:
		return objectTypeCommit
	default:
		return "unknown"
	}
}

// ParseObjectType converts an object type name to an ObjectType.
func ParseObjectType(s string) ObjectType {
	switch s {
	case objectTypeBlob:
		return BlobObject
	case objectTypeTree:
		return TreeObject
	case objectTypeCommit:
		return CommitObject
	default:
		return NoneObject
	}
}

// Commit represents a commit object.
type Commit struct {
	ID        Hash      `json:"hash"`
	Tree      Hash      `json:"tree"`
	Parents   []Hash    `json:"parents"`
	Author    Signature `json:"author"`
	Committer Signature `json:"committer"`
	Message   string    `json:"message"`
}

// FirstParent returns the privileged first parent, or "" for a root commit.
func (c *Commit) FirstParent() Hash {
	if len(c.Parents) == 0 {
		return ""
	}
	return c.Parents[0]
}

// Subject returns the first line of the commit message.
func (c *Commit) Subject() string {
	if idx := strings.IndexByte(c.Message, '\n'); idx >= 0 {
		return c.Message[:idx]
	}
	return c.Message
}

// TreeEntry represents a single entry within a tree object.
type TreeEntry struct {
	Mode string `json:"mode"` // "100644" for blobs, "040000" for trees
	Kind string `json:"kind"` // "blob" or "tree"
	ID   Hash   `json:"hash"`
	Name string `json:"name"`
}

// IsTree reports whether the entry references a subtree.
func (e TreeEntry) IsTree() bool {
	return e.Kind == objectTypeTree || e.Mode == "040000"
}

// Tree represents a tree object: one directory's immediate children.
type Tree struct {
	ID      Hash        `json:"hash"`
	Entries []TreeEntry `json:"entries"`
}

// Signature represents the author or committer of a commit.
type Signature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	When  time.Time `json:"when"`
}

// NewSignature parses a signature line: "Name <email> unix-timestamp timezone".
func NewSignature(signLine string) (Signature, error) {
	parts := signatureRe.Split(signLine, -1)
	if len(parts) != 3 {
		return Signature{}, fmt.Errorf("invalid signature line: %q", signLine)
	}

	name := strings.TrimSpace(parts[0])
	email := strings.TrimSpace(parts[1])

	timeFields := strings.Fields(parts[2])
	if len(timeFields) == 0 {
		return Signature{}, fmt.Errorf("invalid signature line: missing timestamp: %q", signLine)
	}

	unixTime, err := strconv.ParseInt(timeFields[0], 10, 64)
	if err != nil {
		return Signature{}, fmt.Errorf("invalid signature line: invalid timestamp: %q", signLine)
	}

	var loc *time.Location
	if len(timeFields) >= 2 {
		loc = parseTimezone(timeFields[1])
	}
	if loc == nil {
		loc = time.UTC
	}

	return Signature{
		Name:  name,
		Email: email,
		When:  time.Unix(unixTime, 0).In(loc),
	}, nil
}

// Encode renders the signature in the object header format
// "Name <email> unix-timestamp timezone".
func (s Signature) Encode() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When.Unix(), s.When.Format("-0700"))
}

// parseTimezone parses a timezone offset string (e.g., "+0530", "-0800")
// into a *time.Location. Returns nil if the string is not a valid offset.
func parseTimezone(tz string) *time.Location {
	if len(tz) != 5 {
		return nil
	}
	sign := 1
	if tz[0] == '-' {
		sign = -1
	} else if tz[0] != '+' {
		return nil
	}
	hours, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return nil
	}
	mins, err := strconv.Atoi(tz[3:5])
	if err != nil {
		return nil
	}
	offset := sign * (hours*3600 + mins*60)
	return time.FixedZone(tz, offset)
}

// IndexEntry is the stat-cache record the index keeps for one tracked path.
// MtimeNs and Size only short-circuit re-hashing; the hash is authoritative.
type IndexEntry struct {
	Hash    Hash
	MtimeNs int64
	Size    int64
}

// Index is the staging area: a flat map of slash-separated paths to entries.
type Index map[string]IndexEntry

// Stage upserts an entry for path.
func (idx Index) Stage(path string, h Hash, mtimeNs, size int64) {
	idx[path] = IndexEntry{Hash: h, MtimeNs: mtimeNs, Size: size}
}

// Unstage removes path from the index. Removing an absent path is a no-op.
func (idx Index) Unstage(path string) {
	delete(idx, path)
}

// Hashes returns the path-to-blob-hash view of the index, dropping the stat cache.
func (idx Index) Hashes() map[string]Hash {
	files := make(map[string]Hash, len(idx))
	for path, entry := range idx {
		files[path] = entry.Hash
	}
	return files
}
