// Package git provides git and git-flow operations via shell commands.
//
// All operations call the git CLI through the cmd package rather than using
// Go git libraries. git-flow exists only as a git subcommand, and the CLI
// honours the user's SSH keys, credential helpers and aliases.
//
// # Release Operations
//
// [Client] bundles the operations the release flow drives, one git
// invocation each:
//
//   - [Client.Clone], [Client.Checkout], [Client.DeleteBranch]: local branch state
//   - [Client.Pull], [Client.FetchTags], [Client.Push]: remote synchronization
//   - [Client.FlowInit], [Client.FlowReleaseStart]: git-flow setup and release branches
//
// # Queries
//
//   - [Tags]: all tag names of a repository
//   - [BranchExists]: local or remote-tracking branch lookup via "git branch -a"
//   - [CurrentBranch], [IsRepo]: repository state for status output
//
// Every failing command returns a *cmd.Error carrying the command line and
// exit status.
package git
