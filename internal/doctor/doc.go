// Package doctor checks that relcut can run a release.
//
// Checks cover the tools (git, the git-flow extension), the workspace
// (exists, writable, not locked by another run) and every project on the
// roster:
//
//   - the clone exists and is a git repository
//   - the configured remote is set up
//   - the master and develop branches exist on the remote
//   - the work tree is clean, since the release flow deletes and recreates
//     local branches
//   - the version script, if present, is executable
//
// # Usage
//
//	report := doctor.Run(ctx, cfg, doctor.Options{})          // check only
//	report := doctor.Run(ctx, cfg, doctor.Options{Fix: true}) // clone missing projects
//
// Each [Result] carries a [Severity] and, for fixable problems, the action
// --fix would take.
package doctor
