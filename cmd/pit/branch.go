package main

import (
	"fmt"
	"sort"

	"github.com/rybkr/pit/internal/pitcore"
	"github.com/rybkr/pit/internal/termcolor"
)

func runBranch(repo *pitcore.Repository, args []string, cw *termcolor.Writer) int {
	if len(args) == 1 {
		head, err := repo.HeadCommit()
		if err != nil {
			return fatal(err)
		}
		if head == "" {
			return fatal(fmt.Errorf("no commits to branch from"))
		}
		if err := repo.CreateBranch(args[0], head); err != nil {
			return fatal(err)
		}
		return 0
	}

	branches, err := repo.Branches()
	if err != nil {
		return fatal(err)
	}

	names := make([]string, 0, len(branches))
	for name := range branches {
		names = append(names, name)
	}
	sort.Strings(names)

	current, err := repo.CurrentBranch()
	if err != nil {
		return fatal(err)
	}

	for _, name := range names {
		if name == current {
			fmt.Printf("* %s\n", cw.Green(name))
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
	return 0
}
