package git

import (
	"context"
	"fmt"
	"strings"
)

// Tags returns all tag names in the repository at dir.
func Tags(ctx context.Context, dir string) ([]string, error) {
	output, err := outputGit(ctx, dir, "tag")
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(output)), nil
}

// CurrentBranch returns the checked out branch name.
// Returns "(detached)" for detached HEAD state.
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	output, err := outputGit(ctx, dir, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %w", err)
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "(detached)", nil
	}
	return branch, nil
}

// BranchExists reports whether branch exists locally or as a
// remote-tracking branch of remote, according to "git branch -a".
func BranchExists(ctx context.Context, dir, remote, branch string) (bool, error) {
	output, err := outputGit(ctx, dir, "branch", "-a")
	if err != nil {
		return false, err
	}
	return branchListed(string(output), remote, branch), nil
}

// branchListed scans "git branch -a" output for branch or remotes/<remote>/branch.
func branchListed(output, remote, branch string) bool {
	remoteRef := "remotes/" + remote + "/" + branch
	for _, line := range strings.Split(output, "\n") {
		name := strings.TrimSpace(line)
		// "* current" and "+ checked out in a worktree"
		name = strings.TrimPrefix(name, "* ")
		name = strings.TrimPrefix(name, "+ ")
		// symbolic refs: "remotes/origin/HEAD -> origin/develop"
		if strings.Contains(name, " -> ") {
			continue
		}
		if name == branch || name == remoteRef {
			return true
		}
	}
	return false
}

// Remotes returns the names of the configured remotes.
func Remotes(ctx context.Context, dir string) ([]string, error) {
	output, err := outputGit(ctx, dir, "remote")
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(output)), nil
}

// IsClean reports whether the work tree has no staged, unstaged or
// untracked changes.
func IsClean(ctx context.Context, dir string) (bool, error) {
	output, err := outputGit(ctx, dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return len(strings.TrimSpace(string(output))) == 0, nil
}
