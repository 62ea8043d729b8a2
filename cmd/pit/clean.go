package main

import (
	"fmt"
	"os"

	"github.com/rybkr/pit/internal/pitcore"
)

func runClean(repo *pitcore.Repository, args []string) int {
	mode := pitcore.CleanPreview
	includeDirs := false

	for _, arg := range args {
		switch arg {
		case "-n", "--dry-run":
			mode = pitcore.CleanDryRun
		case "-f", "--force":
			mode = pitcore.CleanForce
		case "-d":
			includeDirs = true
		case "-fd", "-df":
			mode = pitcore.CleanForce
			includeDirs = true
		case "-nd", "-dn":
			mode = pitcore.CleanDryRun
			includeDirs = true
		default:
			fmt.Fprintf(os.Stderr, "error: unknown option: %q\n", arg)
			return 1
		}
	}

	paths, err := repo.Clean(mode, includeDirs)
	if err != nil {
		return fatal(err)
	}

	for _, path := range paths {
		if mode == pitcore.CleanForce {
			fmt.Printf("Removing %s\n", path)
		} else {
			fmt.Printf("Would remove %s\n", path)
		}
	}
	if mode == pitcore.CleanPreview && len(paths) > 0 {
		fmt.Println("Use -f to actually remove, -n to preview.")
	}
	return 0
}
