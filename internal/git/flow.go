package git

import (
	"strings"
)

// FlowSettings are the answers fed to "git flow init".
type FlowSettings struct {
	Master     string
	Develop    string
	Feature    string
	Release    string
	Hotfix     string
	Support    string
	VersionTag string
}

// answers renders the settings in the order "git flow init" asks for them,
// terminated by an empty line.
func (s FlowSettings) answers() string {
	lines := []string{
		s.Master,
		s.Develop,
		s.Feature,
		s.Release,
		s.Hotfix,
		s.Support,
		s.VersionTag,
		"",
	}
	return strings.Join(lines, "\n") + "\n"
}
