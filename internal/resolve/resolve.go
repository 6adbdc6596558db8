package resolve

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/raphi011/relcut/internal/config"
	"github.com/sahilm/fuzzy"
)

// ErrNoProjects is returned when neither the config nor the arguments name a project.
var ErrNoProjects = errors.New("no projects configured: add projects to the config or pass project names")

// UnknownProjectError reports an argument that is not in the roster.
type UnknownProjectError struct {
	Name        string
	Suggestions []string // closest roster entries, best first
}

func (e *UnknownProjectError) Error() string {
	msg := fmt.Sprintf("unknown project %q", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(quoteAll(e.Suggestions), " or "))
	}
	return msg
}

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 2

// Projects returns the projects selected by args, in roster order.
// An empty args selects the whole roster. Duplicate arguments are ignored.
func Projects(roster, args []string) ([]string, error) {
	if len(roster) == 0 {
		if len(args) == 0 {
			return nil, ErrNoProjects
		}
		adHoc := dedupe(args)
		if err := config.ValidateProjects(adHoc); err != nil {
			return nil, err
		}
		return adHoc, nil
	}
	if len(args) == 0 {
		return slices.Clone(roster), nil
	}

	wanted := make(map[string]bool, len(args))
	for _, arg := range args {
		if !slices.Contains(roster, arg) {
			return nil, &UnknownProjectError{Name: arg, Suggestions: Suggest(roster, arg)}
		}
		wanted[arg] = true
	}

	selected := make([]string, 0, len(wanted))
	for _, p := range roster {
		if wanted[p] {
			selected = append(selected, p)
		}
	}
	return selected, nil
}

// Suggest returns the roster entries closest to name, best match first.
func Suggest(roster []string, name string) []string {
	matches := fuzzy.Find(name, roster)
	if len(matches) == 0 {
		// fuzzy needs every character in order; fall back to a shared prefix
		for _, p := range roster {
			if len(name) >= 3 && strings.HasPrefix(p, name[:3]) {
				matches = append(matches, fuzzy.Match{Str: p})
			}
		}
	}

	var out []string
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// Complete returns roster entries for shell completion, excluding projects
// already given on the command line.
func Complete(roster, already []string, toComplete string) []string {
	var out []string
	for _, p := range roster {
		if slices.Contains(already, p) {
			continue
		}
		if strings.HasPrefix(p, toComplete) {
			out = append(out, p)
		}
	}
	return out
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
