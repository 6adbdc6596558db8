// Package cmd provides helpers for executing external commands with proper error handling.
//
// This package wraps [os/exec.Cmd] so that a failing command produces an
// [*Error] carrying the command line, the exit status and whatever the
// command printed, making VCS failures actionable for the operator.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, dir, "git", "fetch", "origin", "--tags"); err != nil {
//	    return fmt.Errorf("fetch tags: %w", err)
//	}
//
//	out, err := cmd.OutputContext(ctx, dir, "git", "tag")
//
// Every invocation is announced through the logger attached to ctx, so
// --verbose shows each command together with its duration.
//
// # Design Notes
//
// relcut shells out to git and git-flow rather than using Go git libraries.
// git-flow has no library equivalent, and the CLI honours the user's SSH keys,
// credential helpers and aliases.
package cmd
