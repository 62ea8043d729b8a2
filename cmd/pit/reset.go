package main

import (
	"fmt"
	"os"

	"github.com/rybkr/pit/internal/pitcore"
)

func runReset(repo *pitcore.Repository, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: pit reset <path>...")
		return 1
	}
	if err := repo.ResetPaths(args); err != nil {
		return fatal(err)
	}
	return 0
}
