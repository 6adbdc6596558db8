// Package release cuts GitFlow release branches across a roster of projects.
//
// An [Orchestrator] walks the projects strictly in order. For each one it:
//
//  1. clones the project into the workspace if no clone exists
//  2. refreshes master and develop from the remote and re-runs "git flow init"
//  3. suggests the next version from the project's tags
//  4. asks the operator to accept or override the suggestion
//  5. refuses to continue if the release branch already exists
//  6. starts the release branch with git-flow
//  7. runs the project's version script, if it has one
//  8. pushes the release branch
//  9. merges the release branch back into develop and pushes develop
//  10. leaves the clone on the release branch
//  11. runs post-release hooks and records the release
//
// The first failing step aborts the whole run; the returned [StepError]
// names the project and step.
package release
