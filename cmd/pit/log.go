package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rybkr/pit/internal/pitcore"
	"github.com/rybkr/pit/internal/termcolor"
)

func runLog(repo *pitcore.Repository, args []string, cw *termcolor.Writer) int {
	maxCount := 0
	oneline := false
	patch := false
	grep := ""
	var since time.Time
	pathFilter := ""

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--oneline":
			oneline = true
		case args[i] == "-p":
			patch = true
		case args[i] == "--grep" && i+1 < len(args):
			i++
			grep = args[i]
		case args[i] == "--since" && i+1 < len(args):
			i++
			t, err := time.Parse("2006-01-02", args[i])
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: invalid --since date %q (want YYYY-MM-DD)\n", args[i])
				return 1
			}
			since = t
		case args[i] == "-n" && i+1 < len(args):
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: invalid -n value: %q\n", args[i])
				return 1
			}
			maxCount = n
		case strings.HasPrefix(args[i], "-n"):
			n, err := strconv.Atoi(args[i][2:])
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: invalid -n value: %q\n", args[i][2:])
				return 1
			}
			maxCount = n
		case !strings.HasPrefix(args[i], "-") && pathFilter == "":
			pathFilter = args[i]
		default:
			fmt.Fprintf(os.Stderr, "error: unknown option: %q\n", args[i])
			return 1
		}
	}

	// Filters are applied after the walk, so fetch everything when any
	// filter could disqualify commits before maxCount is reached.
	walkCount := maxCount
	if grep != "" || !since.IsZero() || pathFilter != "" {
		walkCount = 0
	}

	commits, err := repo.Log(walkCount)
	if err != nil {
		return fatal(err)
	}

	branches, _ := repo.Branches()
	tags, _ := repo.Tags()
	head, err := repo.ReadHead()
	if err != nil {
		return fatal(err)
	}
	decorations := buildDecorations(branches, tags, head, cw)

	printed := 0
	for _, c := range commits {
		if maxCount > 0 && printed >= maxCount {
			break
		}
		if grep != "" && !strings.Contains(c.Message, grep) {
			continue
		}
		if !since.IsZero() && c.Committer.When.Before(since) {
			continue
		}
		if pathFilter != "" {
			touches, err := repo.CommitTouchesPath(c, pathFilter)
			if err != nil {
				return fatal(err)
			}
			if !touches {
				continue
			}
		}

		decor := ""
		if d, ok := decorations[c.ID]; ok {
			decor = " " + cw.Yellow("(") + d + cw.Yellow(")")
		}

		if oneline {
			fmt.Printf("%s%s %s\n", cw.Yellow(c.ID.Short()), decor, c.Subject())
		} else {
			if printed > 0 {
				fmt.Println()
			}
			fmt.Printf("%s %s%s\n", cw.Yellow("commit"), cw.Yellow(string(c.ID)), decor)
			if len(c.Parents) > 1 {
				parentStrs := make([]string, len(c.Parents))
				for j, p := range c.Parents {
					parentStrs[j] = p.Short()
				}
				fmt.Printf("Merge: %s\n", strings.Join(parentStrs, " "))
			}
			fmt.Printf("Author: %s <%s>\n", c.Author.Name, c.Author.Email)
			fmt.Printf("Date:   %s\n", commitDateFormat(c.Author.When))
			fmt.Println()
			for _, line := range strings.Split(c.Message, "\n") {
				fmt.Printf("    %s\n", line)
			}
		}

		if patch {
			if err := printCommitPatch(repo, c, cw); err != nil {
				return fatal(err)
			}
		}
		printed++
	}

	return 0
}

// printCommitPatch prints the unified diff of a commit against its first
// parent.
func printCommitPatch(repo *pitcore.Repository, c *pitcore.Commit, cw *termcolor.Writer) error {
	files, err := repo.TreeFiles(c.Tree)
	if err != nil {
		return err
	}
	parentFiles, err := repo.CommitFiles(c.FirstParent())
	if err != nil {
		return err
	}

	fmt.Println()
	for _, path := range sortedUnion(parentFiles, files) {
		oldHash, newHash := parentFiles[path], files[path]
		if oldHash == newHash {
			continue
		}
		diff, err := repo.DiffBlobs(oldHash, newHash, path, pitcore.DefaultContextLines)
		if err != nil {
			return err
		}
		printUnified(diff, cw)
	}
	return nil
}

func buildDecorations(branches, tags map[string]pitcore.Hash, head pitcore.HeadRef, cw *termcolor.Writer) map[pitcore.Hash]string {
	result := make(map[pitcore.Hash]string)

	type decoInfo struct {
		headArrow string
		branches  []string
		tags      []string
	}
	byHash := make(map[pitcore.Hash]*decoInfo)

	getInfo := func(h pitcore.Hash) *decoInfo {
		if info, ok := byHash[h]; ok {
			return info
		}
		info := &decoInfo{}
		byHash[h] = info
		return info
	}

	for name, hash := range branches {
		if hash == "" {
			continue
		}
		info := getInfo(hash)
		if name == head.Branch {
			info.headArrow = cw.BoldCyan("HEAD -> ") + cw.Green(name)
		} else {
			info.branches = append(info.branches, cw.Green(name))
		}
	}

	for name, hash := range tags {
		info := getInfo(hash)
		info.tags = append(info.tags, cw.Yellow("tag: "+name))
	}

	if head.Detached && head.Commit != "" {
		getInfo(head.Commit).headArrow = cw.BoldCyan("HEAD")
	}

	for hash, info := range byHash {
		var parts []string
		if info.headArrow != "" {
			parts = append(parts, info.headArrow)
		}
		parts = append(parts, info.branches...)
		parts = append(parts, info.tags...)
		if len(parts) > 0 {
			result[hash] = strings.Join(parts, cw.Yellow(", "))
		}
	}

	return result
}
