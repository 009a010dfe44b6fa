package gitp4

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RepoSummary describes the repository left behind by a clone.
type RepoSummary struct {
	Branch   string
	Head     string
	Subject  string
	Detached bool
}

// Inspect opens the repository in dir and reports its HEAD.
func Inspect(dir string) (*RepoSummary, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", dir, err)
	}
	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD in %s: %w", dir, err)
	}

	summary := &RepoSummary{Head: ref.Hash().String()}
	if ref.Name().IsBranch() {
		summary.Branch = ref.Name().Short()
	} else {
		summary.Detached = true
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read HEAD commit in %s: %w", dir, err)
	}
	summary.Subject = firstLine(commit)
	return summary, nil
}

func firstLine(c *object.Commit) string {
	msg := c.Message
	for i, r := range msg {
		if r == '\n' {
			return msg[:i]
		}
	}
	return msg
}
