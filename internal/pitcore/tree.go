package pitcore

import (
	"fmt"
	"sort"
	"strings"
)

// treeNode is one directory in the nested projection of a flat file map.
type treeNode struct {
	blobs map[string]Hash      // name -> blob hash
	dirs  map[string]*treeNode // name -> subdirectory
}

func newTreeNode() *treeNode {
	return &treeNode{
		blobs: make(map[string]Hash),
		dirs:  make(map[string]*treeNode),
	}
}

// insert places a slash-separated path into the nested structure, creating
// intermediate directories as needed.
func (n *treeNode) insert(path string, h Hash) {
	dir, rest, ok := strings.Cut(path, "/")
	if !ok {
		n.blobs[path] = h
		return
	}
	child, exists := n.dirs[dir]
	if !exists {
		child = newTreeNode()
		n.dirs[dir] = child
	}
	child.insert(rest, h)
}

// WriteTree folds a flat path-to-blob-hash map into nested tree objects,
// persisting each directory bottom-up, and returns the root tree's hash.
// The result depends only on the (path, hash) pairs: two identical maps
// produce byte-identical root trees regardless of insertion order.
func (r *Repository) WriteTree(files map[string]Hash) (Hash, error) {
	root := newTreeNode()
	for path, h := range files {
		root.insert(path, h)
	}
	return r.writeTreeNode(root)
}

func (r *Repository) writeTreeNode(n *treeNode) (Hash, error) {
	entries := make([]TreeEntry, 0, len(n.blobs)+len(n.dirs))

	names := make([]string, 0, len(n.dirs))
	for name := range n.dirs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		subHash, err := r.writeTreeNode(n.dirs[name])
		if err != nil {
			return "", err
		}
		entries = append(entries, TreeEntry{Mode: "040000", Kind: "tree", ID: subHash, Name: name})
	}

	for name, h := range n.blobs {
		entries = append(entries, TreeEntry{Mode: "100644", Kind: "blob", ID: h, Name: name})
	}

	treeHash, err := r.HashObject(EncodeTree(entries), TreeObject, true)
	if err != nil {
		return "", fmt.Errorf("failed to write tree object: %w", err)
	}
	return treeHash, nil
}

// TreeFiles recursively unfolds the tree with the given hash into a flat
// map of slash-separated blob paths to blob hashes. This is the canonical
// representation used for all tree comparisons.
func (r *Repository) TreeFiles(treeHash Hash) (map[string]Hash, error) {
	files := make(map[string]Hash)
	if err := r.collectTreeFiles(treeHash, "", files); err != nil {
		return nil, err
	}
	return files, nil
}

func (r *Repository) collectTreeFiles(treeHash Hash, prefix string, files map[string]Hash) error {
	tree, err := r.ReadTree(treeHash)
	if err != nil {
		return fmt.Errorf("failed to unfold tree %s: %w", treeHash, err)
	}

	for _, entry := range tree.Entries {
		fullPath := entry.Name
		if prefix != "" {
			fullPath = prefix + "/" + entry.Name
		}

		if entry.IsTree() {
			if err := r.collectTreeFiles(entry.ID, fullPath, files); err != nil {
				return err
			}
		} else {
			files[fullPath] = entry.ID
		}
	}
	return nil
}

// CommitFiles returns the flat file map of the commit with the given hash.
// An empty commit hash yields an empty map, standing in for the tree of an
// unborn branch.
func (r *Repository) CommitFiles(commitHash Hash) (map[string]Hash, error) {
	if commitHash == "" {
		return make(map[string]Hash), nil
	}
	commit, err := r.ReadCommit(commitHash)
	if err != nil {
		return nil, err
	}
	return r.TreeFiles(commit.Tree)
}
