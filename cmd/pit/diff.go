package main

import (
	"fmt"
	"os"

	"github.com/rybkr/pit/internal/pitcore"
	"github.com/rybkr/pit/internal/termcolor"
)

func runDiff(repo *pitcore.Repository, args []string, cw *termcolor.Writer) int {
	staged := false
	var revs []string
	for _, arg := range args {
		if arg == "--staged" || arg == "--cached" {
			staged = true
			continue
		}
		revs = append(revs, arg)
	}

	switch {
	case staged:
		return diffIndexAgainstHead(repo, cw)
	case len(revs) == 0:
		return diffWorktreeAgainstIndex(repo, cw)
	case len(revs) == 2:
		return diffCommits(repo, revs[0], revs[1], cw)
	default:
		fmt.Fprintln(os.Stderr, "usage: pit diff [--staged] [<revision> <revision>]")
		return 1
	}
}

// diffWorktreeAgainstIndex shows unstaged changes: each tracked path's
// on-disk content against its indexed blob.
func diffWorktreeAgainstIndex(repo *pitcore.Repository, cw *termcolor.Writer) int {
	idx, err := repo.ReadIndex()
	if err != nil {
		return fatal(err)
	}

	indexFiles := idx.Hashes()
	for _, path := range sortedUnion(indexFiles, nil) {
		diskContent, readErr := os.ReadFile(repo.WorkPath(path))
		if readErr != nil && !os.IsNotExist(readErr) {
			return fatal(readErr)
		}

		diff, err := repo.DiffBlobAgainstFile(indexFiles[path], diskContent, path, pitcore.DefaultContextLines)
		if err != nil {
			return fatal(err)
		}
		printUnified(diff, cw)
	}
	return 0
}

// diffIndexAgainstHead shows staged changes: the indexed blobs against
// HEAD's tree.
func diffIndexAgainstHead(repo *pitcore.Repository, cw *termcolor.Writer) int {
	head, err := repo.HeadCommit()
	if err != nil {
		return fatal(err)
	}
	headFiles, err := repo.CommitFiles(head)
	if err != nil {
		return fatal(err)
	}
	idx, err := repo.ReadIndex()
	if err != nil {
		return fatal(err)
	}
	indexFiles := idx.Hashes()

	for _, path := range sortedUnion(headFiles, indexFiles) {
		oldHash, newHash := headFiles[path], indexFiles[path]
		if oldHash == newHash {
			continue
		}
		diff, err := repo.DiffBlobs(oldHash, newHash, path, pitcore.DefaultContextLines)
		if err != nil {
			return fatal(err)
		}
		printUnified(diff, cw)
	}
	return 0
}

// diffCommits shows the changes between two resolved revisions.
func diffCommits(repo *pitcore.Repository, revA, revB string, cw *termcolor.Writer) int {
	a, err := repo.ResolveRevision(revA)
	if err != nil {
		return fatal(err)
	}
	b, err := repo.ResolveRevision(revB)
	if err != nil {
		return fatal(err)
	}

	aFiles, err := repo.CommitFiles(a)
	if err != nil {
		return fatal(err)
	}
	bFiles, err := repo.CommitFiles(b)
	if err != nil {
		return fatal(err)
	}

	for _, path := range sortedUnion(aFiles, bFiles) {
		oldHash, newHash := aFiles[path], bFiles[path]
		if oldHash == newHash {
			continue
		}
		diff, err := repo.DiffBlobs(oldHash, newHash, path, pitcore.DefaultContextLines)
		if err != nil {
			return fatal(err)
		}
		printUnified(diff, cw)
	}
	return 0
}
