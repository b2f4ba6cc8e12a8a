// Package git reads the revision of the repository a report was produced in.
package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/alexander-akhmetov/perflogger/internal/debug"
)

// ErrNotRepo is returned when dir is not inside a git repository.
var ErrNotRepo = errors.New("not a git repository")

// Revision identifies the checked-out commit.
type Revision struct {
	Branch string // empty on a detached HEAD
	Hash   string
	Dirty  bool
}

// Short returns the abbreviated commit hash.
func (r Revision) Short() string {
	if len(r.Hash) > 7 {
		return r.Hash[:7]
	}
	return r.Hash
}

// String formats the revision as branch@hash, with a -dirty suffix when the
// worktree has uncommitted changes.
func (r Revision) String() string {
	s := r.Short()
	if r.Branch != "" {
		s = r.Branch + "@" + s
	}
	if r.Dirty {
		s += "-dirty"
	}
	return s
}

// Describe returns the revision of the repository containing dir.
func Describe(dir string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return Revision{}, fmt.Errorf("%w: %s", ErrNotRepo, dir)
	}
	if err != nil {
		return Revision{}, fmt.Errorf("open git repo at %s: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return Revision{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	rev := Revision{Hash: head.Hash().String()}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}

	dirty, err := hasUncommittedChanges(repo)
	if err != nil {
		// A missing status only loses the -dirty suffix.
		debug.Logf("git status at %s: %v", dir, err)
	}
	rev.Dirty = dirty
	return rev, nil
}

// IsRepo reports whether dir is inside a git repository.
func IsRepo(dir string) bool {
	_, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	return err == nil
}

func hasUncommittedChanges(repo *git.Repository) (bool, error) {
	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return !status.IsClean(), nil
}
