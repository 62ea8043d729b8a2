package main

import (
	"fmt"
	"os"

	"github.com/rybkr/pit/internal/pitcore"
)

func runRevert(repo *pitcore.Repository, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: pit revert <revision>")
		return 1
	}

	commitHash, err := repo.Revert(args[0])
	if err != nil {
		return fatal(err)
	}

	branch, _ := repo.CurrentBranch()
	if branch == "" {
		branch = "HEAD"
	}
	newCommit, err := repo.ReadCommit(commitHash)
	if err != nil {
		return fatal(err)
	}
	fmt.Printf("[%s %s] %s\n", branch, commitHash.Short(), newCommit.Subject())
	return 0
}
