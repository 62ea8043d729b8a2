package main

import (
	"fmt"
	"sort"

	"github.com/rybkr/pit/internal/pitcore"
)

func runTag(repo *pitcore.Repository, args []string) int {
	if len(args) == 1 {
		head, err := repo.HeadCommit()
		if err != nil {
			return fatal(err)
		}
		if head == "" {
			return fatal(fmt.Errorf("no commits to tag"))
		}
		if err := repo.CreateTag(args[0], head); err != nil {
			return fatal(err)
		}
		return 0
	}

	tags, err := repo.Tags()
	if err != nil {
		return fatal(err)
	}

	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Println(name)
	}
	return 0
}
