package main

import (
	"fmt"
	"os"

	"github.com/rybkr/pit/internal/pitcore"
)

func runStash(repo *pitcore.Repository, args []string) int {
	sub := "push"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "push":
		h, err := repo.StashPush()
		if err != nil {
			return fatal(err)
		}
		fmt.Printf("Saved working directory and index state %s\n", h.Short())
		return 0

	case "pop":
		h, err := repo.StashPop()
		if err != nil {
			return fatal(err)
		}
		fmt.Printf("Dropped stash entry %s\n", h.Short())
		return 0

	case "list":
		entries, err := repo.StashList()
		if err != nil {
			return fatal(err)
		}
		// Top of the stack is the last line; list newest first.
		for i := len(entries) - 1; i >= 0; i-- {
			h := entries[i]
			msg := ""
			if c, readErr := repo.ReadCommit(h); readErr == nil {
				msg = ": " + c.Subject()
			}
			fmt.Printf("stash@{%d}%s\n", len(entries)-1-i, msg)
		}
		return 0

	case "clear":
		if err := repo.StashClear(); err != nil {
			return fatal(err)
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "usage: pit stash {push|pop|list|clear}\n")
		return 1
	}
}
