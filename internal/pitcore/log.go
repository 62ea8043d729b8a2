package pitcore

import (
	"container/heap"
	"fmt"
)

// commitHeap is a max-heap of commits sorted by committer date (newest first).
type commitHeap []*Commit

func (h commitHeap) Len() int { return len(h) }

func (h commitHeap) Less(i, j int) bool {
	return h[i].Committer.When.After(h[j].Committer.When)
}

func (h commitHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *commitHeap) Push(x any) {
	*h = append(*h, x.(*Commit)) //nolint:errcheck // heap only stores *Commit
}

func (h *commitHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Log walks from HEAD through parents in reverse chronological order.
// If maxCount <= 0 all reachable commits are returned. An unborn HEAD
// yields an empty log.
func (r *Repository) Log(maxCount int) ([]*Commit, error) {
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	if head == "" {
		return nil, nil
	}

	headCommit, err := r.ReadCommit(head)
	if err != nil {
		return nil, err
	}

	visited := map[Hash]bool{head: true}
	h := &commitHeap{}
	heap.Init(h)
	heap.Push(h, headCommit)

	var result []*Commit
	for h.Len() > 0 {
		if maxCount > 0 && len(result) >= maxCount {
			break
		}
		c := heap.Pop(h).(*Commit) //nolint:errcheck // heap only stores *Commit
		result = append(result, c)

		for _, parentHash := range c.Parents {
			if visited[parentHash] {
				continue
			}
			visited[parentHash] = true
			parent, err := r.ReadCommit(parentHash)
			if err != nil {
				return nil, fmt.Errorf("failed to walk history: %w", err)
			}
			heap.Push(h, parent)
		}
	}
	return result, nil
}

// CommitTouchesPath reports whether a commit changed the given path
// relative to its first parent. Used by the log path filter.
func (r *Repository) CommitTouchesPath(c *Commit, path string) (bool, error) {
	files, err := r.TreeFiles(c.Tree)
	if err != nil {
		return false, err
	}
	parentFiles, err := r.CommitFiles(c.FirstParent())
	if err != nil {
		return false, err
	}
	return files[path] != parentFiles[path], nil
}
