package main

import (
	"fmt"
	"os"

	"github.com/rybkr/pit/internal/pitcore"
)

func runCommit(repo *pitcore.Repository, args []string) int {
	message := ""
	for i := 0; i < len(args); i++ {
		if args[i] == "-m" && i+1 < len(args) {
			message = args[i+1]
			i++
		}
	}
	if message == "" {
		fmt.Fprintln(os.Stderr, "usage: pit commit -m <message>")
		return 1
	}

	commitHash, err := repo.Commit(message)
	if err != nil {
		return fatal(err)
	}

	branch, _ := repo.CurrentBranch()
	if branch == "" {
		branch = "HEAD"
	}
	fmt.Printf("[%s %s] %s\n", branch, commitHash.Short(), firstLine(message))
	return 0
}
