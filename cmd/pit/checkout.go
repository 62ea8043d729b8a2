package main

import (
	"fmt"
	"os"

	"github.com/rybkr/pit/internal/pitcore"
)

func runCheckout(repo *pitcore.Repository, args []string) int {
	createBranch := false
	var targets []string
	for _, arg := range args {
		if arg == "-b" {
			createBranch = true
			continue
		}
		targets = append(targets, arg)
	}

	switch {
	case createBranch:
		if len(targets) != 1 {
			fmt.Fprintln(os.Stderr, "fatal: -b requires exactly one branch name")
			return 1
		}
		if err := repo.CreateAndCheckoutBranch(targets[0]); err != nil {
			return fatal(err)
		}
		fmt.Printf("Switched to a new branch '%s'\n", targets[0])
		return 0

	case len(targets) == 1 && repo.IsBranch(targets[0]):
		current, err := repo.CurrentBranch()
		if err != nil {
			return fatal(err)
		}
		if current == targets[0] {
			fmt.Printf("Already on '%s'\n", targets[0])
			return 0
		}
		if err := repo.CheckoutBranch(targets[0]); err != nil {
			return fatal(err)
		}
		fmt.Printf("Switched to branch '%s'\n", targets[0])
		return 0

	case len(targets) > 0:
		if err := repo.CheckoutPaths(targets); err != nil {
			return fatal(err)
		}
		return 0

	default:
		fmt.Fprintln(os.Stderr, "usage: pit checkout [-b] <branch> | <path>...")
		return 1
	}
}
