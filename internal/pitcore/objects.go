package pitcore

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // content addressing, not security
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// maxDecompressedSize caps the size of any single decompressed object.
const maxDecompressedSize = 256 * 1024 * 1024 // 256MB

// HashObject computes the object hash of payload as SHA-1 over
// "<kind> <length>\0<payload>". When persist is true and the object is not
// already present, the header-prefixed bytes are zlib-compressed and written
// atomically under objects/<h[:2]>/<h[2:]>. The hash is returned either way.
// Writes are idempotent: re-writing identical content is a no-op.
func (r *Repository) HashObject(payload []byte, kind ObjectType, persist bool) (Hash, error) {
	header := fmt.Sprintf("%s %d\x00", kind, len(payload))

	h := sha1.New() //nolint:gosec // content addressing, not security
	h.Write([]byte(header))
	h.Write(payload)
	id := Hash(hex.EncodeToString(h.Sum(nil)))

	if !persist {
		return id, nil
	}

	objectPath := r.objectPath(id)
	if _, err := os.Stat(objectPath); err == nil {
		return id, nil
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write([]byte(header)); err != nil {
		return "", fmt.Errorf("failed to compress object header: %w", err)
	}
	if _, err := zw.Write(payload); err != nil {
		return "", fmt.Errorf("failed to compress object payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish compression: %w", err)
	}

	if err := writeFileAtomic(objectPath, compressed.Bytes()); err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", id, err)
	}
	return id, nil
}

// ReadObject reads and decompresses the object with the given hash, splits
// the header at the first null byte, and returns the kind and payload.
// Returns ErrObjectMissing when the object does not exist and
// ErrCorruptObject when decompression fails or the header is malformed.
func (r *Repository) ReadObject(id Hash) (ObjectType, []byte, error) {
	//nolint:gosec // G304: object paths are derived from the repository structure
	file, err := os.Open(r.objectPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return NoneObject, nil, fmt.Errorf("%w: %s", ErrObjectMissing, id)
		}
		return NoneObject, nil, fmt.Errorf("failed to open object %s: %w", id, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	data, err := readCompressedData(file)
	if err != nil {
		return NoneObject, nil, fmt.Errorf("%w: %s: %v", ErrCorruptObject, id, err)
	}

	nullIdx := bytes.IndexByte(data, 0)
	if nullIdx == -1 {
		return NoneObject, nil, fmt.Errorf("%w: %s: missing header terminator", ErrCorruptObject, id)
	}

	header, payload := string(data[:nullIdx]), data[nullIdx+1:]
	kindName, _, ok := strings.Cut(header, " ")
	if !ok {
		return NoneObject, nil, fmt.Errorf("%w: %s: malformed header %q", ErrCorruptObject, id, header)
	}
	kind := ParseObjectType(kindName)
	if kind == NoneObject {
		return NoneObject, nil, fmt.Errorf("%w: %s: unrecognized kind %q", ErrCorruptObject, id, kindName)
	}

	return kind, payload, nil
}

// HasObject reports whether the object with the given hash is stored.
func (r *Repository) HasObject(id Hash) bool {
	_, err := os.Stat(r.objectPath(id))
	return err == nil
}

// ResolvePrefix expands a 4-to-40 character hex prefix to the unique full
// hash it identifies. Returns ErrAmbiguousPrefix when more than one object
// shares the prefix and ErrUnknownRevision when none does.
func (r *Repository) ResolvePrefix(prefix string) (Hash, error) {
	if len(prefix) < 4 || len(prefix) > 40 {
		return "", fmt.Errorf("%w: %q", ErrUnknownRevision, prefix)
	}
	if _, err := hex.DecodeString(prefix[:len(prefix)&^1]); err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownRevision, prefix)
	}
	if len(prefix) == 40 {
		if r.HasObject(Hash(prefix)) {
			return Hash(prefix), nil
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownRevision, prefix)
	}

	fanout := prefix[:2]
	rest := prefix[2:]

	entries, err := os.ReadDir(filepath.Join(r.objectsDir(), fanout))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrUnknownRevision, prefix)
		}
		return "", fmt.Errorf("failed to scan objects: %w", err)
	}

	var matches []Hash
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), rest) {
			matches = append(matches, Hash(fanout+entry.Name()))
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrUnknownRevision, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d objects", ErrAmbiguousPrefix, prefix, len(matches))
	}
}

// ReadCommit reads and parses the commit object with the given hash.
func (r *Repository) ReadCommit(id Hash) (*Commit, error) {
	kind, payload, err := r.ReadObject(id)
	if err != nil {
		return nil, err
	}
	if kind != CommitObject {
		return nil, fmt.Errorf("object %s is not a commit (is a %s)", id, kind)
	}
	return ParseCommit(payload, id)
}

// ReadTree reads and parses the tree object with the given hash.
func (r *Repository) ReadTree(id Hash) (*Tree, error) {
	kind, payload, err := r.ReadObject(id)
	if err != nil {
		return nil, err
	}
	if kind != TreeObject {
		return nil, fmt.Errorf("object %s is not a tree (is a %s)", id, kind)
	}
	return ParseTree(payload, id)
}

// ReadBlob reads the raw content of the blob object with the given hash.
func (r *Repository) ReadBlob(id Hash) ([]byte, error) {
	kind, payload, err := r.ReadObject(id)
	if err != nil {
		return nil, err
	}
	if kind != BlobObject {
		return nil, fmt.Errorf("object %s is not a blob (is a %s)", id, kind)
	}
	return payload, nil
}

func (r *Repository) objectPath(id Hash) string {
	return filepath.Join(r.objectsDir(), string(id)[:2], string(id)[2:])
}

// ParseCommit parses the payload of a commit object into a Commit struct.
// The payload is a header block (tree, parent*, author, committer), an empty
// line, then the free-form message.
func ParseCommit(payload []byte, id Hash) (*Commit, error) {
	commit := &Commit{ID: id}
	lines := strings.Split(string(payload), "\n")

	var messageLines []string
	inMessage := false

	for _, line := range lines {
		if inMessage {
			messageLines = append(messageLines, line)
			continue
		}
		if line == "" {
			inMessage = true
			continue
		}

		switch {
		case strings.HasPrefix(line, "tree "):
			tree, err := NewHash(strings.TrimPrefix(line, "tree "))
			if err != nil {
				return nil, fmt.Errorf("invalid tree hash: %w", err)
			}
			commit.Tree = tree
		case strings.HasPrefix(line, "parent "):
			parent, err := NewHash(strings.TrimPrefix(line, "parent "))
			if err != nil {
				return nil, fmt.Errorf("invalid parent hash: %w", err)
			}
			commit.Parents = append(commit.Parents, parent)
		case strings.HasPrefix(line, "author "):
			author, err := NewSignature(strings.TrimPrefix(line, "author "))
			if err != nil {
				return nil, fmt.Errorf("invalid author signature: %w", err)
			}
			commit.Author = author
		case strings.HasPrefix(line, "committer "):
			committer, err := NewSignature(strings.TrimPrefix(line, "committer "))
			if err != nil {
				return nil, fmt.Errorf("invalid committer signature: %w", err)
			}
			commit.Committer = committer
		}
	}

	commit.Message = strings.TrimSpace(strings.Join(messageLines, "\n"))
	return commit, nil
}

// EncodeCommit renders a Commit into its object payload. The inverse of
// ParseCommit up to message whitespace trimming.
func EncodeCommit(c *Commit) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "tree %s\n", c.Tree)
	for _, parent := range c.Parents {
		fmt.Fprintf(&b, "parent %s\n", parent)
	}
	fmt.Fprintf(&b, "author %s\n", c.Author.Encode())
	fmt.Fprintf(&b, "committer %s\n", c.Committer.Encode())
	b.WriteString("\n")
	b.WriteString(c.Message)
	return []byte(b.String())
}

// ParseTree parses the payload of a tree object. Each line has the form
// "<mode> <kind> <hash>\t<name>"; lines are newline-joined with no trailer.
func ParseTree(payload []byte, id Hash) (*Tree, error) {
	tree := &Tree{ID: id, Entries: make([]TreeEntry, 0)}
	if len(payload) == 0 {
		return tree, nil
	}

	for _, line := range strings.Split(string(payload), "\n") {
		if line == "" {
			continue
		}
		head, name, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("%w: tree %s: entry missing name separator: %q", ErrCorruptObject, id, line)
		}
		fields := strings.SplitN(head, " ", 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: tree %s: malformed entry: %q", ErrCorruptObject, id, line)
		}
		entryHash, err := NewHash(fields[2])
		if err != nil {
			return nil, fmt.Errorf("%w: tree %s: invalid entry hash: %v", ErrCorruptObject, id, err)
		}
		tree.Entries = append(tree.Entries, TreeEntry{
			Mode: fields[0],
			Kind: fields[1],
			ID:   entryHash,
			Name: name,
		})
	}
	return tree, nil
}

// EncodeTree renders tree entries into the canonical tree payload:
// name-sorted, newline-joined "<mode> <kind> <hash>\t<name>" lines.
func EncodeTree(entries []TreeEntry) []byte {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	lines := make([]string, 0, len(sorted))
	for _, e := range sorted {
		lines = append(lines, fmt.Sprintf("%s %s %s\t%s", e.Mode, e.Kind, e.ID, e.Name))
	}
	return []byte(strings.Join(lines, "\n"))
}

// readCompressedData reads and decompresses zlib-compressed data, rejecting
// output larger than maxDecompressedSize.
func readCompressedData(r io.Reader) ([]byte, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer zr.Close() //nolint:errcheck // read-only stream

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(zr, maxDecompressedSize+1)); err != nil {
		return nil, fmt.Errorf("failed to decompress data: %w", err)
	}
	if buf.Len() > maxDecompressedSize {
		return nil, fmt.Errorf("decompressed object exceeds maximum allowed size (%d bytes)", maxDecompressedSize)
	}
	return buf.Bytes(), nil
}
