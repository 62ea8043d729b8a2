package main

import (
	"fmt"
	"os"

	"github.com/rybkr/pit/internal/pitcore"
	"github.com/rybkr/pit/internal/progress"
	"github.com/rybkr/pit/internal/termcolor"
)

func runRebase(repo *pitcore.Repository, args []string, cw *termcolor.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: pit rebase <upstream> | --continue | --abort")
		return 1
	}

	switch args[0] {
	case "--abort":
		if err := repo.RebaseAbort(); err != nil {
			return fatal(err)
		}
		fmt.Println("Rebase aborted.")
		return 0

	case "--continue":
		outcome, err := repo.RebaseContinue()
		if err != nil {
			return fatal(err)
		}
		return reportRebase(outcome, cw)

	default:
		fmt.Println("First, rewinding head to replay your work on top of it...")
		spinner := progress.New("Replaying commits...")
		spinner.Start()
		outcome, err := repo.RebaseStart(args[0])
		spinner.Stop()
		if err != nil {
			return fatal(err)
		}
		return reportRebase(outcome, cw)
	}
}

func reportRebase(outcome *pitcore.RebaseOutcome, cw *termcolor.Writer) int {
	if outcome.Done {
		if outcome.UpToDate {
			fmt.Printf("Current branch %s is up to date.\n", outcome.Branch)
			return 0
		}
		fmt.Printf("Successfully rebased %s to %s.\n", outcome.Branch, cw.Yellow(outcome.Head.Short()))
		return 0
	}

	fmt.Printf("Conflict while applying %s.\n", cw.Yellow(outcome.ConflictCommit.Short()))
	for _, path := range outcome.Conflicts {
		fmt.Printf("%s %s\n", cw.Red("CONFLICT (content):"), path)
	}
	fmt.Println("Resolve conflicts, then run 'pit add <files>' and 'pit rebase --continue'.")
	fmt.Println("To stop, run 'pit rebase --abort'.")
	return 1
}
