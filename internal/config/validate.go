package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidHookTriggers lists the values allowed in a hook's "on" list.
var ValidHookTriggers = []string{"release", "all"}

// ValidThemeNames lists the built-in color themes.
var ValidThemeNames = []string{"default", "none", "dracula", "nord", "gruvbox"}

// Validate checks the configuration for values relcut cannot work with.
func (c *Config) Validate() error {
	if c.RemoteURL != "" && !strings.Contains(c.RemoteURL, ProjectPlaceholder) {
		return fmt.Errorf("invalid remote_url %q: must contain %s", c.RemoteURL, ProjectPlaceholder)
	}
	if strings.ContainsAny(c.Remote, " \t/") {
		return fmt.Errorf("invalid remote %q", c.Remote)
	}
	if c.Branches.Master == c.Branches.Develop {
		return fmt.Errorf("branches.master and branches.develop must differ, both are %q", c.Branches.Master)
	}
	if c.Flow.Release == "" {
		return fmt.Errorf("flow.release prefix must not be empty")
	}
	if err := validateEnum(c.Theme, "theme", ValidThemeNames); err != nil {
		return err
	}
	if err := ValidateProjects(c.Projects); err != nil {
		return err
	}
	return validateHooks(c.Hooks)
}

// ValidateProjects checks that project names are usable as directory names
// and appear only once.
func ValidateProjects(projects []string) error {
	seen := make(map[string]bool, len(projects))
	for i, p := range projects {
		if p == "" || strings.TrimSpace(p) != p {
			return fmt.Errorf("invalid projects[%d] %q: must be a non-empty name without surrounding spaces", i, p)
		}
		if p == "." || p == ".." || strings.ContainsAny(p, `/\`) {
			return fmt.Errorf("invalid projects[%d] %q: must not be a path", i, p)
		}
		if seen[p] {
			return fmt.Errorf("duplicate project %q", p)
		}
		seen[p] = true
	}
	return nil
}

func validateHooks(hc HooksConfig) error {
	for name, hook := range hc.Hooks {
		if hook.Command == "" && (hook.Enabled == nil || *hook.Enabled) {
			return fmt.Errorf("hook %q: command must not be empty", name)
		}
		for _, on := range hook.On {
			if err := validateEnum(on, fmt.Sprintf("hooks.%s.on", name), ValidHookTriggers); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
