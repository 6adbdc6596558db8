package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = errors.New("git not found: please install git (https://git-scm.com)")

// ErrGitFlowNotFound indicates the git-flow extension is missing
var ErrGitFlowNotFound = errors.New("git-flow not found: please install git-flow (AVH edition)")

// CheckGit verifies that git is available in PATH
func CheckGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	return nil
}

// CheckGitFlow verifies that the git-flow extension is installed.
func CheckGitFlow(ctx context.Context) error {
	if err := CheckGit(); err != nil {
		return err
	}
	if _, err := outputGit(ctx, "", "flow", "version"); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w (%v)", ErrGitFlowNotFound, err)
	}
	return nil
}

// IsRepo returns true if dir is inside a git work tree
func IsRepo(ctx context.Context, dir string) bool {
	return runGit(ctx, dir, "rev-parse", "--is-inside-work-tree") == nil
}
