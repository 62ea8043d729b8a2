package main

import (
	"fmt"

	"github.com/rybkr/pit/internal/pitcore"
	"github.com/rybkr/pit/internal/termcolor"
)

const (
	statusModified = "modified"
	statusDeleted  = "deleted"
	statusAdded    = "added"
)

func runStatus(repo *pitcore.Repository, args []string, cw *termcolor.Writer) int {
	porcelain := false
	for _, arg := range args {
		if arg == "-s" || arg == "--porcelain" {
			porcelain = true
		}
	}

	status, err := repo.Status()
	if err != nil {
		return fatal(err)
	}

	if porcelain {
		return printPorcelain(status)
	}
	return printLongStatus(repo, status, cw)
}

func printPorcelain(status *pitcore.WorkingTreeStatus) int {
	for _, f := range status.Files {
		x, y := statusCodes(f)
		fmt.Printf("%c%c %s\n", x, y, f.Path)
	}
	return 0
}

func statusCodes(f pitcore.FileStatus) (x, y byte) {
	x = ' '
	y = ' '

	if f.IsUntracked {
		return '?', '?'
	}

	switch f.IndexStatus {
	case statusAdded:
		x = 'A'
	case statusModified:
		x = 'M'
	case statusDeleted:
		x = 'D'
	}

	switch f.WorkStatus {
	case statusModified:
		y = 'M'
	case statusDeleted:
		y = 'D'
	}

	return x, y
}

func printLongStatus(repo *pitcore.Repository, status *pitcore.WorkingTreeStatus, cw *termcolor.Writer) int {
	head, err := repo.ReadHead()
	if err != nil {
		return fatal(err)
	}
	if head.Detached {
		fmt.Printf("HEAD detached at %s\n", head.Commit.Short())
	} else {
		fmt.Printf("On branch %s\n", head.Branch)
	}

	if mergeHead := repo.MergeHead(); mergeHead != "" {
		fmt.Printf("You are still merging %s.\n", mergeHead.Short())
	}

	var staged, unstaged, untracked []pitcore.FileStatus
	for _, f := range status.Files {
		if f.IsUntracked {
			untracked = append(untracked, f)
			continue
		}
		if f.IndexStatus != "" {
			staged = append(staged, f)
		}
		if f.WorkStatus != "" {
			unstaged = append(unstaged, f)
		}
	}

	if len(staged) > 0 {
		fmt.Println("Changes to be committed:")
		fmt.Println("  (use \"pit reset <file>...\" to unstage)")
		for _, f := range staged {
			prefix := ""
			switch f.IndexStatus {
			case statusAdded:
				prefix = "new file:   "
			case statusModified:
				prefix = "modified:   "
			case statusDeleted:
				prefix = "deleted:    "
			}
			fmt.Printf("\t%s\n", cw.Green(prefix+f.Path))
		}
		fmt.Println()
	}

	if len(unstaged) > 0 {
		fmt.Println("Changes not staged for commit:")
		fmt.Println("  (use \"pit add <file>...\" to update what will be committed)")
		for _, f := range unstaged {
			prefix := ""
			switch f.WorkStatus {
			case statusModified:
				prefix = "modified:   "
			case statusDeleted:
				prefix = "deleted:    "
			}
			fmt.Printf("\t%s\n", cw.Red(prefix+f.Path))
		}
		fmt.Println()
	}

	if len(untracked) > 0 {
		fmt.Println("Untracked files:")
		fmt.Println("  (use \"pit add <file>...\" to include in what will be committed)")
		for _, f := range untracked {
			fmt.Printf("\t%s\n", cw.Red(f.Path))
		}
		fmt.Println()
	}

	if len(staged) == 0 && len(unstaged) == 0 && len(untracked) == 0 {
		fmt.Println("nothing to commit, working tree clean")
	}

	return 0
}
