package git

import (
	"context"
	"io"

	"github.com/raphi011/relcut/internal/cmd"
)

// runGit executes a git command in dir with context support and verbose logging.
func runGit(ctx context.Context, dir string, args ...string) error {
	return cmd.RunContext(ctx, dir, "git", args...)
}

// outputGit executes a git command in dir and returns stdout.
func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	return cmd.OutputContext(ctx, dir, "git", args...)
}

// inputGit executes a git command in dir with stdin fed from input.
func inputGit(ctx context.Context, dir string, input io.Reader, args ...string) ([]byte, error) {
	return cmd.InputContext(ctx, dir, input, "git", args...)
}
