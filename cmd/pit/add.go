package main

import (
	"fmt"
	"os"

	"github.com/rybkr/pit/internal/pitcore"
)

func runAdd(repo *pitcore.Repository, args []string) int {
	all := false
	var paths []string
	for _, arg := range args {
		if arg == "-A" || arg == "--all" {
			all = true
			continue
		}
		paths = append(paths, arg)
	}

	if all {
		if err := repo.AddAll(); err != nil {
			return fatal(err)
		}
		return 0
	}

	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: pit add [-A] [<path>...]")
		return 1
	}
	if err := repo.Add(paths); err != nil {
		return fatal(err)
	}
	return 0
}
