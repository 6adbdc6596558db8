package git

import (
	"context"
	"strings"
)

// Client drives the git operations of a release. It holds no state;
// every method takes the repository directory explicitly.
type Client struct{}

// NewClient creates a new Client.
func NewClient() *Client {
	return &Client{}
}

// Clone clones url into dir.
func (c *Client) Clone(ctx context.Context, url, dir string) error {
	return runGit(ctx, "", "clone", url, dir)
}

// Checkout switches dir to branch.
func (c *Client) Checkout(ctx context.Context, dir, branch string) error {
	return runGit(ctx, dir, "checkout", "-q", branch)
}

// DeleteBranch deletes a fully merged local branch.
func (c *Client) DeleteBranch(ctx context.Context, dir, branch string) error {
	return runGit(ctx, dir, "branch", "-d", branch)
}

// Pull pulls ref from remote into the current branch.
// An empty ref pulls the current branch's configured upstream.
func (c *Client) Pull(ctx context.Context, dir, remote, ref string) error {
	args := []string{"pull", "--no-edit", remote}
	if ref != "" {
		args = append(args, ref)
	}
	return runGit(ctx, dir, args...)
}

// FetchTags fetches all tags from remote.
func (c *Client) FetchTags(ctx context.Context, dir, remote string) error {
	return runGit(ctx, dir, "fetch", remote, "--tags")
}

// Tags returns all tag names.
func (c *Client) Tags(ctx context.Context, dir string) ([]string, error) {
	return Tags(ctx, dir)
}

// BranchExists reports whether branch exists locally or on remote.
func (c *Client) BranchExists(ctx context.Context, dir, remote, branch string) (bool, error) {
	return BranchExists(ctx, dir, remote, branch)
}

// Push pushes branch to remote.
func (c *Client) Push(ctx context.Context, dir, remote, branch string) error {
	return runGit(ctx, dir, "push", remote, branch)
}

// FlowInit (re)initializes git-flow in dir with the given settings.
func (c *Client) FlowInit(ctx context.Context, dir string, settings FlowSettings) error {
	_, err := inputGit(ctx, dir, strings.NewReader(settings.answers()), "flow", "init", "-f")
	return err
}

// FlowReleaseStart creates the release branch for version via git-flow.
func (c *Client) FlowReleaseStart(ctx context.Context, dir, version string) error {
	return runGit(ctx, dir, "flow", "release", "start", version)
}
