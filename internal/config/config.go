package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Hook defines a shell command run after a project release
type Hook struct {
	Command     string   `toml:"command"`
	Description string   `toml:"description,omitempty"`
	On          []string `toml:"on,omitempty"`      // triggers this hook runs on (empty = only via --hook)
	Enabled     *bool    `toml:"enabled,omitempty"` // local override: false removes an inherited hook
}

// HooksConfig holds hook-related configuration
type HooksConfig struct {
	Hooks map[string]Hook `toml:"-"` // parsed from [hooks.NAME] sections
}

// BranchesConfig names the long-lived branches
type BranchesConfig struct {
	Master  string `toml:"master"`
	Develop string `toml:"develop"`
}

// FlowConfig holds the git-flow branch prefixes
type FlowConfig struct {
	Feature    string `toml:"feature"`
	Release    string `toml:"release"`
	Hotfix     string `toml:"hotfix"`
	Support    string `toml:"support"`
	VersionTag string `toml:"version_tag"`
}

// VersionConfig configures the in-repo version update script
type VersionConfig struct {
	Script string `toml:"script"` // path relative to the project root
}

// Config holds the relcut configuration
type Config struct {
	Workspace string         `toml:"workspace"`
	Projects  []string       `toml:"projects"`
	Remote    string         `toml:"remote"`
	RemoteURL string         `toml:"remote_url"`
	Branches  BranchesConfig `toml:"branches"`
	Flow      FlowConfig     `toml:"flow"`
	Version   VersionConfig  `toml:"version"`
	Theme     string         `toml:"theme"` // color theme for terminal output
	Hooks     HooksConfig    `toml:"-"`     // custom parsing needed
}

// ProjectPlaceholder is substituted with the project name in RemoteURL.
const ProjectPlaceholder = "{project}"

// Default values, matching a stock "git flow init" with release- prefixes.
const (
	DefaultRemote        = "origin"
	DefaultMasterBranch  = "master"
	DefaultDevelopBranch = "develop"
	DefaultReleasePrefix = "release-"
	DefaultVersionScript = "update_version.sh"
)

// Default returns the default configuration
func Default() Config {
	return Config{
		Remote: DefaultRemote,
		Branches: BranchesConfig{
			Master:  DefaultMasterBranch,
			Develop: DefaultDevelopBranch,
		},
		Flow: FlowConfig{
			Feature:    "f-",
			Release:    DefaultReleasePrefix,
			Hotfix:     "hotfix-",
			Support:    "support-",
			VersionTag: "v",
		},
		Version: VersionConfig{Script: DefaultVersionScript},
		Hooks:   HooksConfig{Hooks: map[string]Hook{}},
	}
}

// ProjectURL returns the clone URL for a project.
func (c *Config) ProjectURL(project string) string {
	return strings.ReplaceAll(c.RemoteURL, ProjectPlaceholder, project)
}

// ProjectDir returns the local clone directory for a project.
func (c *Config) ProjectDir(project string) string {
	return filepath.Join(c.Workspace, project)
}

// ReleaseBranch returns the release branch name for a version.
func (c *Config) ReleaseBranch(version string) string {
	return c.Flow.Release + version
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // not configured
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the config file.
// RELCUT_CONFIG overrides the default ~/.config/relcut/config.toml.
func Path() (string, error) {
	if p := os.Getenv("RELCUT_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "relcut", "config.toml"), nil
}

// rawConfig is used for initial TOML parsing before processing hooks
type rawConfig struct {
	Workspace string         `toml:"workspace"`
	Projects  []string       `toml:"projects"`
	Remote    string         `toml:"remote"`
	RemoteURL string         `toml:"remote_url"`
	Branches  BranchesConfig `toml:"branches"`
	Flow      FlowConfig     `toml:"flow"`
	Version   VersionConfig  `toml:"version"`
	Theme     string         `toml:"theme"`
	Hooks     map[string]any `toml:"hooks"`
}

// Load reads config from Path().
// Returns Default() if file doesn't exist (no error).
// Returns error only if file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads config from path, applying defaults and env overrides.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			return cfg, cfg.applyEnv()
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML config data, applying defaults, env overrides and validation.
func Parse(data []byte) (Config, error) {
	var raw rawConfig
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	hooks, err := parseHooksConfig(raw.Hooks)
	if err != nil {
		return Default(), err
	}

	cfg := Default()
	cfg.Workspace = raw.Workspace
	cfg.Projects = raw.Projects
	cfg.RemoteURL = raw.RemoteURL
	cfg.Hooks = hooks
	cfg.Theme = raw.Theme
	setIfEmpty(&cfg.Remote, raw.Remote)
	setIfEmpty(&cfg.Branches.Master, raw.Branches.Master)
	setIfEmpty(&cfg.Branches.Develop, raw.Branches.Develop)
	setIfEmpty(&cfg.Flow.Feature, raw.Flow.Feature)
	setIfEmpty(&cfg.Flow.Release, raw.Flow.Release)
	setIfEmpty(&cfg.Flow.Hotfix, raw.Flow.Hotfix)
	setIfEmpty(&cfg.Flow.Support, raw.Flow.Support)
	setIfEmpty(&cfg.Flow.VersionTag, raw.Flow.VersionTag)
	setIfEmpty(&cfg.Version.Script, raw.Version.Script)

	if err := cfg.applyEnv(); err != nil {
		return Default(), err
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// setIfEmpty overrides *dst with v unless v is empty.
func setIfEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// applyEnv applies environment overrides and expands ~ in the workspace.
func (c *Config) applyEnv() error {
	if ws := os.Getenv("RELCUT_WORKSPACE"); ws != "" {
		c.Workspace = ws
	}
	return c.SetWorkspace(c.Workspace)
}

// SetWorkspace validates, expands and stores the workspace directory.
func (c *Config) SetWorkspace(dir string) error {
	if err := ValidatePath(dir, "workspace"); err != nil {
		return err
	}
	expanded, err := expandPath(dir)
	if err != nil {
		return fmt.Errorf("expand workspace: %w", err)
	}
	c.Workspace = expanded
	return nil
}

// parseHooksConfig extracts HooksConfig from raw TOML map
// Handles [hooks.NAME] sections
func parseHooksConfig(raw map[string]any) (HooksConfig, error) {
	hc := HooksConfig{
		Hooks: make(map[string]Hook),
	}

	for name, value := range raw {
		hookMap, ok := value.(map[string]any)
		if !ok {
			return hc, fmt.Errorf("invalid hook %q: expected a [hooks.%s] table", name, name)
		}
		hook := Hook{}
		if cmd, ok := hookMap["command"].(string); ok {
			hook.Command = cmd
		}
		if desc, ok := hookMap["description"].(string); ok {
			hook.Description = desc
		}
		if on, ok := hookMap["on"].([]any); ok {
			for _, v := range on {
				if s, ok := v.(string); ok {
					hook.On = append(hook.On, s)
				}
			}
		}
		if enabled, ok := hookMap["enabled"].(bool); ok {
			hook.Enabled = &enabled
		}
		hc.Hooks[name] = hook
	}

	return hc, nil
}

// WriteTOML encodes the effective configuration, hooks included.
func (c *Config) WriteTOML(w io.Writer) error {
	out := struct {
		Workspace string          `toml:"workspace"`
		Projects  []string        `toml:"projects"`
		Remote    string          `toml:"remote"`
		RemoteURL string          `toml:"remote_url"`
		Branches  BranchesConfig  `toml:"branches"`
		Flow      FlowConfig      `toml:"flow"`
		Version   VersionConfig   `toml:"version"`
		Theme     string          `toml:"theme,omitempty"`
		Hooks     map[string]Hook `toml:"hooks,omitempty"`
	}{c.Workspace, c.Projects, c.Remote, c.RemoteURL, c.Branches, c.Flow, c.Version, c.Theme, c.Hooks.Hooks}
	return toml.NewEncoder(w).Encode(out)
}

const defaultConfig = `# relcut configuration

# Directory holding one clone per project. Missing clones are created on demand.
# Must be an absolute path or start with ~. Defaults to the current directory.
# workspace = "~/Code/releases"

# Projects released by "relcut release", in order.
projects = [
  # "upload-client",
  # "compute-runner",
]

# Remote name and clone URL. {project} is replaced with the project name.
remote = "origin"
remote_url = "git@github.com:my-org/{project}.git"

# Color theme: "default", "none", "dracula", "nord" or "gruvbox".
# Colors are disabled automatically when output is not a terminal or NO_COLOR is set.
# theme = "default"

# Long-lived branches
[branches]
master = "master"
develop = "develop"

# Prefixes passed to "git flow init". Release branches are named <release><version>.
[flow]
feature = "f-"
release = "release-"
hotfix = "hotfix-"
support = "support-"
version_tag = "v"

# Executable in the project root, run as "<script> <version>" after the
# release branch is created. Skipped when the file does not exist.
[version]
script = "update_version.sh"

# Hooks run after a project release is pushed.
# Hooks with "on" run automatically; hooks without "on" only via --hook=name.
#
# [hooks.notify]
# command = "echo 'released {project} {version} on {branch}'"
# description = "Announce release"
# on = ["release"]
#
# Available "on" values: "release", "all"
#
# Available placeholders (shell-quoted):
#   {project} - project name
#   {version} - release version
#   {branch}  - release branch name
#   {path}    - project clone directory
`

// Init creates a default config file at Path().
// If force is true, overwrites existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}

	return path, nil
}
