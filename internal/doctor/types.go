package doctor

// Severity ranks a check result.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "ok"
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// Fix actions
const (
	FixClone = "clone"
)

// Result is the outcome of a single check.
type Result struct {
	Check    string   // short check name, e.g. "git-flow"
	Project  string   // empty for global checks
	Severity Severity // outcome
	Message  string   // human-readable detail
	Fix      string   // what --fix would do; empty if not fixable
	Fixed    bool     // set when --fix resolved the problem
}

// Report holds all check results in the order they ran.
type Report struct {
	Results []Result
}

// Count returns the number of results with severity s.
func (r Report) Count(s Severity) int {
	n := 0
	for _, res := range r.Results {
		if res.Severity == s && !res.Fixed {
			n++
		}
	}
	return n
}

// Healthy reports whether no check failed. Warnings do not count.
func (r Report) Healthy() bool {
	return r.Count(SeverityError) == 0
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
}
