package server

import (
	"github.com/rybkr/pit/internal/pitcore"
)

// maxSummaryCommits bounds how much history one summary carries.
const maxSummaryCommits = 50

// CommitInfo is one history entry in a Summary.
type CommitInfo struct {
	Hash    string   `json:"hash"`
	Parents []string `json:"parents"`
	Author  string   `json:"author"`
	Date    int64    `json:"date"`
	Subject string   `json:"subject"`
}

// StatusCounts summarizes the working tree state.
type StatusCounts struct {
	Staged    int `json:"staged"`
	Unstaged  int `json:"unstaged"`
	Untracked int `json:"untracked"`
}

// Summary is the wire format pushed to clients on every change.
type Summary struct {
	Repository string            `json:"repository"`
	Branch     string            `json:"branch"`
	Detached   bool              `json:"detached"`
	Head       string            `json:"head"`
	Branches   map[string]string `json:"branches"`
	Tags       map[string]string `json:"tags"`
	Commits    []CommitInfo      `json:"commits"`
	Status     StatusCounts      `json:"status"`
	StashDepth int               `json:"stashDepth"`
}

// BuildSummary assembles a Summary from the repository's current state.
func BuildSummary(repo *pitcore.Repository) (*Summary, error) {
	head, err := repo.ReadHead()
	if err != nil {
		return nil, err
	}

	branches, err := repo.Branches()
	if err != nil {
		return nil, err
	}
	tags, err := repo.Tags()
	if err != nil {
		return nil, err
	}

	commits, err := repo.Log(maxSummaryCommits)
	if err != nil {
		return nil, err
	}

	status, err := repo.Status()
	if err != nil {
		return nil, err
	}

	stash, err := repo.StashList()
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Repository: repo.Name(),
		Branch:     head.Branch,
		Detached:   head.Detached,
		Head:       string(head.Commit),
		Branches:   hashMapToStrings(branches),
		Tags:       hashMapToStrings(tags),
		Commits:    make([]CommitInfo, 0, len(commits)),
		StashDepth: len(stash),
	}

	for _, c := range commits {
		parents := make([]string, len(c.Parents))
		for i, p := range c.Parents {
			parents[i] = string(p)
		}
		summary.Commits = append(summary.Commits, CommitInfo{
			Hash:    string(c.ID),
			Parents: parents,
			Author:  c.Author.Name,
			Date:    c.Committer.When.Unix(),
			Subject: c.Subject(),
		})
	}

	for _, f := range status.Files {
		switch {
		case f.IsUntracked:
			summary.Status.Untracked++
		default:
			if f.IndexStatus != "" {
				summary.Status.Staged++
			}
			if f.WorkStatus != "" {
				summary.Status.Unstaged++
			}
		}
	}

	return summary, nil
}

func hashMapToStrings(m map[string]pitcore.Hash) map[string]string {
	result := make(map[string]string, len(m))
	for name, h := range m {
		result[name] = string(h)
	}
	return result
}
