package main

import (
	"fmt"
	"os"

	"github.com/rybkr/pit/internal/pitcore"
	"github.com/rybkr/pit/internal/termcolor"
)

func runMerge(repo *pitcore.Repository, args []string, cw *termcolor.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: pit merge <branch>")
		return 1
	}

	outcome, err := repo.Merge(args[0])
	if err != nil {
		return fatal(err)
	}

	switch {
	case outcome.AlreadyUpToDate:
		fmt.Println("Already up to date.")
		return 0
	case outcome.Result != nil && !outcome.Result.Clean():
		fmt.Println("Automatic merge failed; fix conflicts and then commit the result.")
		for _, path := range outcome.Result.Conflicts {
			fmt.Printf("%s %s\n", cw.Red("CONFLICT (content):"), path)
		}
		return 1
	default:
		fmt.Printf("Merge made commit %s.\n", cw.Yellow(outcome.Commit.Short()))
		return 0
	}
}
