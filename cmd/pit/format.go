package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rybkr/pit/internal/pitcore"
	"github.com/rybkr/pit/internal/termcolor"
)

// fatal prints a core error the way git does and returns the generic
// failure exit code.
func fatal(err error) int {
	fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
	return 1
}

func firstLine(msg string) string {
	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		return msg[:idx]
	}
	return msg
}

// commitDateFormat renders timestamps in the classic log format, e.g.
// "Mon Jan 2 15:04:05 2006 -0700".
func commitDateFormat(t time.Time) string {
	return t.Format("Mon Jan 2 15:04:05 2006 -0700")
}

// sortedUnion returns the sorted union of the keys of two file maps.
func sortedUnion(a, b map[string]pitcore.Hash) []string {
	seen := make(map[string]bool, len(a)+len(b))
	for path := range a {
		seen[path] = true
	}
	for path := range b {
		seen[path] = true
	}
	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// printUnified writes one file's hunks in unified diff format.
func printUnified(diff *pitcore.FileDiff, cw *termcolor.Writer) {
	switch {
	case diff.IsBinary:
		fmt.Printf("Binary files differ: %s\n", diff.Path)
		return
	case diff.Truncated:
		fmt.Printf("Diff too large to display: %s\n", diff.Path)
		return
	case len(diff.Hunks) == 0:
		return
	}

	fmt.Printf("%s\n", cw.Bold(fmt.Sprintf("diff --pit a/%s b/%s", diff.Path, diff.Path)))
	oldName, newName := "a/"+diff.Path, "b/"+diff.Path
	if diff.OldHash == "" {
		oldName = "/dev/null"
	}
	if diff.NewHash == "" {
		newName = "/dev/null"
	}
	fmt.Printf("%s\n", cw.Bold("--- "+oldName))
	fmt.Printf("%s\n", cw.Bold("+++ "+newName))

	for _, hunk := range diff.Hunks {
		fmt.Printf("%s\n", cw.Cyan(fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			hunk.OldStart, hunk.OldLines, hunk.NewStart, hunk.NewLines)))
		for _, line := range hunk.Lines {
			switch line.Type {
			case "addition":
				fmt.Printf("%s\n", cw.Green("+"+line.Content))
			case "deletion":
				fmt.Printf("%s\n", cw.Red("-"+line.Content))
			default:
				fmt.Printf(" %s\n", line.Content)
			}
		}
	}
}
