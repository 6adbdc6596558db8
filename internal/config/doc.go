// Package config handles loading and validation of relcut configuration.
//
// Configuration is read from ~/.config/relcut/config.toml (or the file named
// by RELCUT_CONFIG) with environment variable overrides.
//
// # Configuration Sources (highest priority first)
//
//   - --workspace flag
//   - RELCUT_WORKSPACE env var: directory holding the project clones
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - workspace: directory holding one clone per project (must be absolute or ~/...)
//   - projects: ordered release roster
//   - remote / remote_url: remote name and clone URL template ({project} placeholder)
//   - [branches]: production and development branch names
//   - [flow]: git-flow prefixes written by "git flow init"
//   - [version] script: in-repo version update script
//
// # Hooks Configuration
//
// Hooks are defined in [hooks.NAME] sections:
//
//	[hooks.notify]
//	command = "notify-send 'released {project} {version}'"
//	description = "Desktop notification"
//	on = ["release"]
//
// Hooks with "on" run automatically once a project release is pushed.
// Hooks without "on" only run via explicit --hook=name flag.
//
// # Per-project Overrides
//
// A project may carry a .relcut.toml at its root to override [version] and
// add or disable hooks; see [LoadLocal] and [MergeLocal].
package config
