package main

import (
	"fmt"
	"os"

	"github.com/rybkr/pit/internal/pitcore"
)

func runConfig(repo *pitcore.Repository, args []string) int {
	switch len(args) {
	case 1:
		config, err := repo.LoadConfig()
		if err != nil {
			return fatal(err)
		}
		value, err := config.Get(args[0])
		if err != nil {
			return fatal(err)
		}
		if value != "" {
			fmt.Println(value)
		}
		return 0

	case 2:
		if err := repo.SetConfig(args[0], args[1]); err != nil {
			return fatal(err)
		}
		return 0

	default:
		fmt.Fprintln(os.Stderr, "usage: pit config <section.key> [<value>]")
		return 1
	}
}
