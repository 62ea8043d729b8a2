package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/rybkr/pit/internal/cli"
	"github.com/rybkr/pit/internal/pitcore"
	"github.com/rybkr/pit/internal/termcolor"
)

// Build-time variables set via -ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	gf, args := parseGlobalFlags(os.Args[1:])

	// --version is handled before app.Run because "--" prefixed args
	// would be treated as unknown commands by the dispatcher.
	for _, a := range args {
		if a == "--version" {
			printVersion()
			os.Exit(0)
		}
	}

	cw := termcolor.NewWriter(os.Stdout, gf.colorMode)

	app := cli.NewApp("pit", version)
	app.Stderr = os.Stderr

	// repo is declared here and assigned after dispatch determines that
	// the matched command needs it (NeedsRepo). Closures capture the
	// pointer variable, which is populated before they execute.
	var repo *pitcore.Repository

	app.Register(&cli.Command{
		Name:     "init",
		Summary:  "Create an empty pit repository",
		Usage:    "pit init",
		Examples: []string{"pit init"},
		Run:      func(args []string) int { return runInit(args) },
	})

	app.Register(&cli.Command{
		Name:      "add",
		Summary:   "Stage file contents for the next commit",
		Usage:     "pit add [-A] [<path>...]",
		Examples:  []string{"pit add main.go", "pit add -A"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runAdd(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "commit",
		Summary:   "Record the staged snapshot as a commit",
		Usage:     "pit commit -m <message>",
		Examples:  []string{`pit commit -m "initial import"`},
		NeedsRepo: true,
		Run:       func(args []string) int { return runCommit(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "status",
		Summary:   "Show working tree status",
		Usage:     "pit status [-s|--porcelain]",
		Examples:  []string{"pit status", "pit status --porcelain"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runStatus(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "log",
		Summary:   "Show commit history",
		Usage:     "pit log [--oneline] [-n <count>] [--since <date>] [--grep <pattern>] [-p] [<path>]",
		Examples:  []string{"pit log", "pit log --oneline -n5", "pit log -p main.go"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runLog(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "diff",
		Summary:   "Show changes between trees, the index, and the working tree",
		Usage:     "pit diff [--staged] [<revision> <revision>]",
		Examples:  []string{"pit diff", "pit diff --staged", "pit diff HEAD master"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runDiff(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "branch",
		Summary:   "List branches or create one at HEAD",
		Usage:     "pit branch [<name>]",
		NeedsRepo: true,
		Run:       func(args []string) int { return runBranch(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "tag",
		Summary:   "List tags or create a lightweight tag at HEAD",
		Usage:     "pit tag [<name>]",
		NeedsRepo: true,
		Run:       func(args []string) int { return runTag(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "checkout",
		Summary:   "Switch branches or restore files from HEAD",
		Usage:     "pit checkout [-b] <branch> | <path>...",
		Examples:  []string{"pit checkout master", "pit checkout -b feature", "pit checkout main.go"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runCheckout(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "merge",
		Summary:   "Merge a branch into the current checkout",
		Usage:     "pit merge <branch>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runMerge(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "rebase",
		Summary:   "Replay local commits on top of another branch",
		Usage:     "pit rebase <upstream> | --continue | --abort",
		Examples:  []string{"pit rebase master", "pit rebase --continue"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runRebase(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "cherry-pick",
		Summary:   "Apply the changes of an existing commit onto HEAD",
		Usage:     "pit cherry-pick <revision>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runCherryPick(repo, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "revert",
		Summary:   "Record a commit undoing an earlier commit",
		Usage:     "pit revert <revision>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runRevert(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "stash",
		Summary:   "Shelve and restore uncommitted changes",
		Usage:     "pit stash {push|pop|list|clear}",
		NeedsRepo: true,
		Run:       func(args []string) int { return runStash(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "clean",
		Summary:   "Remove untracked files from the working tree",
		Usage:     "pit clean [-n|-f] [-d]",
		Examples:  []string{"pit clean", "pit clean -f", "pit clean -fd"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runClean(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "reset",
		Summary:   "Remove paths from the index",
		Usage:     "pit reset <path>...",
		NeedsRepo: true,
		Run:       func(args []string) int { return runReset(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "config",
		Summary:   "Get or set repository configuration",
		Usage:     "pit config <section.key> [<value>]",
		Examples:  []string{`pit config user.name "A Hacker"`, "pit config user.email"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runConfig(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "difftool",
		Summary:   "Prepare working-tree changes for an external diff tool",
		Usage:     "pit difftool <path>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runDifftool(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "mergetool",
		Summary:   "Prepare a conflicted path for an external merge tool",
		Usage:     "pit mergetool <path>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runMergetool(repo, args) },
	})

	app.Register(&cli.Command{
		Name:      "serve",
		Summary:   "Serve live repository status over HTTP and WebSocket",
		Usage:     "pit serve [--addr <host:port>]",
		Examples:  []string{"pit serve", "pit serve --addr 127.0.0.1:7420"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runServe(repo, args) },
	})

	app.Register(&cli.Command{
		Name:    "version",
		Summary: "Show version information",
		Usage:   "pit version",
		Run:     func([]string) int { printVersion(); return 0 },
	})

	// Open the repository only when the matched command needs it, and
	// expand a config alias when the first argument is not a command.
	if len(args) > 0 {
		cmd := app.Lookup(args[0])
		if cmd == nil {
			if expanded, ok := expandAlias(args); ok {
				args = expanded
				cmd = app.Lookup(args[0])
			}
		}
		if cmd != nil && cmd.NeedsRepo {
			var err error
			repo, err = pitcore.Find(".")
			if err != nil {
				fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
				os.Exit(128)
			}
		}
	}

	os.Exit(app.Run(args, cw))
}

// expandAlias replaces args[0] with its [alias] expansion tokens from the
// repository config, when inside a repository and an alias exists. A single
// level of expansion; aliases do not recurse.
func expandAlias(args []string) ([]string, bool) {
	repo, err := pitcore.Find(".")
	if err != nil {
		return args, false
	}
	config, err := repo.LoadConfig()
	if err != nil {
		return args, false
	}
	expansion := config.Alias(args[0])
	if len(expansion) == 0 {
		return args, false
	}
	return append(expansion, args[1:]...), true
}

func printVersion() {
	fmt.Printf("pit %s\n", version)
	fmt.Printf("  commit:     %s\n", commit)
	fmt.Printf("  built:      %s\n", buildDate)
	fmt.Printf("  go version: %s\n", runtime.Version())
	fmt.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
