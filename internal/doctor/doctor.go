package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/raphi011/relcut/internal/config"
	"github.com/raphi011/relcut/internal/log"
	"github.com/raphi011/relcut/internal/ui/styles"
)

// Options control a doctor run.
type Options struct {
	Fix    bool   // apply fixes (clone missing projects)
	Cloner Cloner // required when Fix is set
}

// Run performs all checks against cfg. The projects are checked in roster order.
func Run(ctx context.Context, cfg *config.Config, projects []string, opts Options) (Report, error) {
	l := log.FromContext(ctx)
	var r Report

	l.Println("Checking tools...")
	checkTools(ctx, &r)

	l.Println("Checking configuration...")
	checkConfig(cfg, &r)
	checkWorkspace(cfg, &r)

	if len(projects) > 0 {
		l.Println("Checking projects...")
	}
	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		before := len(r.Results)
		checkProject(ctx, cfg, p, &r)
		if len(r.Results) == before {
			r.add(Result{Check: "project", Project: p, Message: "ready"})
		}
	}

	if opts.Fix && opts.Cloner != nil {
		if err := fixAll(ctx, cfg, opts.Cloner, &r); err != nil {
			return r, err
		}
	}
	return r, nil
}

// Format renders the report, one line per result, followed by a summary.
func Format(r Report) string {
	var b strings.Builder
	for _, res := range r.Results {
		name := res.Check
		if res.Project != "" {
			name = res.Project + ": " + res.Check
		}
		line := fmt.Sprintf("%s: %s", name, res.Message)
		switch {
		case res.Fixed || res.Severity == SeverityOK:
			b.WriteString(styles.OK(line))
		case res.Severity == SeverityWarning:
			b.WriteString(styles.Warn(line))
		default:
			b.WriteString(styles.Fail(line))
		}
		b.WriteString("\n")
	}

	errs, warns := r.Count(SeverityError), r.Count(SeverityWarning)
	b.WriteString("\n")
	if errs == 0 && warns == 0 {
		b.WriteString(styles.OK("No issues found") + "\n")
		return b.String()
	}
	fmt.Fprintf(&b, "%d errors, %d warnings\n", errs, warns)
	if hasFix(r) {
		b.WriteString("Run 'relcut doctor --fix' to clone missing projects.\n")
	}
	return b.String()
}

func hasFix(r Report) bool {
	for _, res := range r.Results {
		if res.Fix != "" && !res.Fixed {
			return true
		}
	}
	return false
}
