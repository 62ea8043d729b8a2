package main

import (
	"fmt"
	"os"

	"github.com/rybkr/pit/internal/pitcore"
	"github.com/rybkr/pit/internal/termcolor"
)

func runCherryPick(repo *pitcore.Repository, args []string, cw *termcolor.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: pit cherry-pick <revision>")
		return 1
	}

	outcome, err := repo.CherryPick(args[0])
	if err != nil {
		return fatal(err)
	}

	if outcome.Result != nil && !outcome.Result.Clean() {
		fmt.Println("Automatic cherry-pick failed; resolve conflicts and commit the result manually.")
		for _, path := range outcome.Result.Conflicts {
			fmt.Printf("%s %s\n", cw.Red("CONFLICT (content):"), path)
		}
		return 1
	}

	fmt.Printf("Cherry-picked as %s.\n", cw.Yellow(outcome.Commit.Short()))
	return 0
}
