package hooks

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strings"

	"github.com/raphi011/relcut/internal/config"
	"github.com/raphi011/relcut/internal/log"
)

// shellQuote escapes a string for safe use in shell commands.
// It wraps the value in single quotes and escapes any embedded single quotes.
func shellQuote(s string) string {
	// e.g., "it's" becomes 'it'\''s'
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// Trigger identifies the operation that runs a hook
type Trigger string

const (
	TriggerRelease Trigger = "release"
)

// Context holds the values for placeholder substitution
type Context struct {
	Project string            // project name
	Version string            // release version
	Branch  string            // release branch
	Path    string            // absolute project clone path
	Trigger string            // operation that triggered the hook
	Env     map[string]string // custom variables from --env key=value flags
	DryRun  bool              // if true, print command instead of executing
}

// HookMatch represents a hook that matched the current trigger
type HookMatch struct {
	Hook *config.Hook
	Name string
}

// SelectHooks determines which hooks to run based on config and CLI flags.
// If hookName is specified, only that hook runs regardless of its "on" list.
// Otherwise, all hooks whose "on" list matches trigger run, sorted by name.
// Returns an error if the named hook doesn't exist.
func SelectHooks(cfg config.HooksConfig, hookName string, noHook bool, trigger Trigger) ([]HookMatch, error) {
	if noHook {
		return nil, nil
	}

	if hookName != "" {
		hook, exists := cfg.Hooks[hookName]
		if !exists {
			return nil, fmt.Errorf("unknown hook %q", hookName)
		}
		return []HookMatch{{Hook: &hook, Name: hookName}}, nil
	}

	return findMatchingHooks(cfg, trigger), nil
}

// findMatchingHooks returns all hooks that have trigger in their "on" list.
// Hooks without "on" are skipped (they only run via explicit --hook=name).
func findMatchingHooks(cfg config.HooksConfig, trigger Trigger) []HookMatch {
	var matches []HookMatch

	for name, hook := range cfg.Hooks {
		if len(hook.On) > 0 && hookMatchesTrigger(hook, trigger) {
			hookCopy := hook
			matches = append(matches, HookMatch{Hook: &hookCopy, Name: name})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches
}

// hookMatchesTrigger returns true if trigger is in the hook's "on" list.
// Special value "all" matches every trigger.
func hookMatchesTrigger(hook config.Hook, trigger Trigger) bool {
	for _, on := range hook.On {
		if on == "all" || on == string(trigger) {
			return true
		}
	}
	return false
}

// RunAll runs all matched hooks in hctx.Path and returns on the first failure.
func RunAll(ctx context.Context, matches []HookMatch, hctx Context) error {
	for _, match := range matches {
		if err := runHook(ctx, match.Name, match.Hook, hctx); err != nil {
			return fmt.Errorf("hook %q failed: %w", match.Name, err)
		}
	}
	return nil
}

// runHook executes a single hook with variable substitution.
func runHook(ctx context.Context, name string, hook *config.Hook, hctx Context) error {
	l := log.FromContext(ctx)
	command := SubstitutePlaceholders(hook.Command, hctx)

	if hctx.DryRun {
		l.Printf("[dry-run] %s: %s\n", name, command)
		return nil
	}

	l.Printf("Running hook '%s'...\n", name)
	l.Debug("hook command", "name", name, "command", command, "dir", hctx.Path)

	shellCmd := exec.CommandContext(ctx, "sh", "-c", command)
	shellCmd.Dir = hctx.Path
	shellCmd.Stdout = l.Writer()
	shellCmd.Stderr = l.Writer()

	if err := shellCmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	if hook.Description != "" {
		l.Printf("  ✓ %s\n", hook.Description)
	}
	return nil
}

// ParseEnv parses a slice of "key=value" strings into a map.
// Returns an error if any entry doesn't contain "=".
func ParseEnv(envSlice []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, e := range envSlice {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("invalid env format %q: expected KEY=VALUE", e)
		}
		if key == "" {
			return nil, fmt.Errorf("invalid env format %q: key cannot be empty", e)
		}
		result[key] = value
	}
	return result, nil
}

// envPlaceholderRegex matches {key}, {key:raw}, or {key:-default} patterns for env variables.
// Supported formats:
//   - {key}           - value is shell-quoted
//   - {key:raw}       - value is used as-is (no quoting)
//   - {key:-default}  - value is shell-quoted, uses default if key not set
var envPlaceholderRegex = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)(?:(:raw)|:-([^}]*))?\}`)

// staticPlaceholders are the placeholder names filled from Context fields.
var staticPlaceholders = map[string]func(Context) string{
	"project": func(c Context) string { return c.Project },
	"version": func(c Context) string { return c.Version },
	"branch":  func(c Context) string { return c.Branch },
	"path":    func(c Context) string { return c.Path },
	"trigger": func(c Context) string { return c.Trigger },
}

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values from Context.
// Static placeholders take precedence over env variables of the same name.
// Unknown placeholders without a default expand to an empty quoted string.
func SubstitutePlaceholders(command string, hctx Context) string {
	return envPlaceholderRegex.ReplaceAllStringFunc(command, func(match string) string {
		submatch := envPlaceholderRegex.FindStringSubmatch(match)
		if submatch == nil {
			return match
		}
		key := submatch[1]
		isRaw := submatch[2] == ":raw"
		defaultVal := submatch[3]

		quote := shellQuote
		if isRaw {
			quote = func(s string) string { return s }
		}

		if field, ok := staticPlaceholders[key]; ok {
			return quote(field(hctx))
		}
		if val, ok := hctx.Env[key]; ok {
			return quote(val)
		}
		return quote(defaultVal)
	})
}
