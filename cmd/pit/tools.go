package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rybkr/pit/internal/pitcore"
)

// runDifftool hands one path's indexed and on-disk versions to the
// configured [diff] tool.
func runDifftool(repo *pitcore.Repository, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: pit difftool <path>")
		return 1
	}
	path := args[0]

	config, err := repo.LoadConfig()
	if err != nil {
		return fatal(err)
	}
	template := config.DiffTool()
	if template == "" {
		return fatal(fmt.Errorf("no diff tool configured; set [diff] tool in .pit/config"))
	}

	idx, err := repo.ReadIndex()
	if err != nil {
		return fatal(err)
	}
	entry, tracked := idx[path]
	if !tracked {
		return fatal(fmt.Errorf("path %q is not tracked", path))
	}

	tmpDir, err := os.MkdirTemp("", "pit-difftool-*")
	if err != nil {
		return fatal(err)
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck // best-effort cleanup

	local, err := repo.MaterializeBlobTemp(entry.Hash, tmpDir, "LOCAL")
	if err != nil {
		return fatal(err)
	}

	command := strings.NewReplacer(
		"$LOCAL", local,
		"$REMOTE", repo.WorkPath(path),
	).Replace(template)

	return runToolCommand(command)
}

// runMergetool hands a conflicted path's three versions plus the marked-up
// working file to the configured [merge] tool, then stages the file if the
// tool resolved every conflict marker.
func runMergetool(repo *pitcore.Repository, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: pit mergetool <path>")
		return 1
	}
	path := args[0]

	mergeHead := repo.MergeHead()
	if mergeHead == "" {
		return fatal(fmt.Errorf("no merge in progress"))
	}

	config, err := repo.LoadConfig()
	if err != nil {
		return fatal(err)
	}
	template := config.MergeTool()
	if template == "" {
		return fatal(fmt.Errorf("no merge tool configured; set [merge] tool in .pit/config"))
	}

	head, err := repo.HeadCommit()
	if err != nil {
		return fatal(err)
	}
	base, err := repo.MergeBase(head, mergeHead)
	if err != nil {
		return fatal(err)
	}

	baseFiles, err := repo.CommitFiles(base)
	if err != nil {
		return fatal(err)
	}
	oursFiles, err := repo.CommitFiles(head)
	if err != nil {
		return fatal(err)
	}
	theirsFiles, err := repo.CommitFiles(mergeHead)
	if err != nil {
		return fatal(err)
	}

	tmpDir, err := os.MkdirTemp("", "pit-mergetool-*")
	if err != nil {
		return fatal(err)
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck // best-effort cleanup

	baseFile, err := repo.MaterializeBlobTemp(baseFiles[path], tmpDir, "BASE")
	if err != nil {
		return fatal(err)
	}
	localFile, err := repo.MaterializeBlobTemp(oursFiles[path], tmpDir, "LOCAL")
	if err != nil {
		return fatal(err)
	}
	remoteFile, err := repo.MaterializeBlobTemp(theirsFiles[path], tmpDir, "REMOTE")
	if err != nil {
		return fatal(err)
	}

	command := strings.NewReplacer(
		"$BASE", baseFile,
		"$LOCAL", localFile,
		"$REMOTE", remoteFile,
		"$MERGED", repo.WorkPath(path),
	).Replace(template)

	if code := runToolCommand(command); code != 0 {
		return code
	}

	// Stage the result only when no conflict markers survive.
	content, err := os.ReadFile(repo.WorkPath(path))
	if err != nil {
		return fatal(err)
	}
	if bytes.Contains(content, []byte("<<<<<<<")) {
		fmt.Printf("%s still contains conflict markers; not staged.\n", path)
		return 1
	}
	if err := repo.Add([]string{repo.WorkPath(path)}); err != nil {
		return fatal(err)
	}
	fmt.Printf("Resolved %s staged.\n", path)
	return 0
}

// runToolCommand runs a shell command line inheriting the terminal.
func runToolCommand(command string) int {
	cmd := exec.Command("sh", "-c", command) //nolint:gosec // the template comes from the user's own config
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		return fatal(err)
	}
	return 0
}
