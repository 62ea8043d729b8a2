package main

import (
	"fmt"

	"github.com/rybkr/pit/internal/pitcore"
)

func runInit(_ []string) int {
	repo, created, err := pitcore.Init(".")
	if err != nil {
		return fatal(err)
	}
	if created {
		fmt.Printf("Initialized empty pit repository in %s/\n", repo.PitDir())
	} else {
		fmt.Printf("Reinitialized existing pit repository in %s/\n", repo.PitDir())
	}
	return 0
}
