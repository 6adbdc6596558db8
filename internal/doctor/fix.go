package doctor

import (
	"context"
	"fmt"

	"github.com/raphi011/relcut/internal/config"
	"github.com/raphi011/relcut/internal/log"
)

// Cloner clones a repository. *git.Client implements it.
type Cloner interface {
	Clone(ctx context.Context, url, dir string) error
}

// fixAll applies the fix of every fixable result in place.
// It continues past failures and returns the first error.
func fixAll(ctx context.Context, cfg *config.Config, cloner Cloner, r *Report) error {
	l := log.FromContext(ctx)
	var firstErr error

	for i := range r.Results {
		res := &r.Results[i]
		if res.Fix != FixClone {
			continue
		}
		url := cfg.ProjectURL(res.Project)
		l.Printf("Cloning %s\n", url)
		if err := cloner.Clone(ctx, url, cfg.ProjectDir(res.Project)); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("clone %s: %w", res.Project, err)
			}
			continue
		}
		res.Fixed = true
		res.Message = "cloned"
	}
	return firstErr
}
