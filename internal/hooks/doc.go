// Package hooks runs the commands a project release triggers.
//
// Two kinds of hooks exist:
//
//   - The version script: an optional executable inside the project
//     (default update_version.sh) that is run with the new version as its
//     only argument right after the release branch is created. A missing
//     script is skipped; a failing one aborts the release with [ScriptError].
//   - Configured hooks: shell commands from [hooks.NAME] config sections that
//     run once a project release has been pushed.
//
// # Hook Selection
//
//   - Automatic: hooks whose "on" list contains "release" (or "all")
//   - Manual: --hook=name runs exactly that hook, --no-hook skips all
//
// Example config:
//
//	[hooks.notify]
//	command = "notify-send 'released {project} {version}'"
//	on = ["release"]
//
//	[hooks.changelog]
//	command = "git log --oneline -20 > CHANGES-{version:raw}.txt"
//	# no "on" - only runs via --hook=changelog
//
// # Placeholder Substitution
//
//   - {project}: Project name from the roster
//   - {version}: Release version (e.g. 1.4.0)
//   - {branch}: Release branch (e.g. release-1.4.0)
//   - {path}: Absolute path of the project clone
//   - {trigger}: What triggered the hook (release)
//
// Custom variables via --env key=value:
//
//   - {key}: Value from --env key=value
//   - {key:raw}: Value without shell quoting
//   - {key:-default}: Value with fallback if not provided
//
// Hooks run with the project clone as working directory. Their output goes
// to stderr so stdout stays reserved for command results.
package hooks
