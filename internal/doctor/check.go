package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/raphi011/relcut/internal/config"
	"github.com/raphi011/relcut/internal/git"
	"github.com/raphi011/relcut/internal/hooks"
	"github.com/raphi011/relcut/internal/lock"
)

// checkTools verifies git and the git-flow extension.
func checkTools(ctx context.Context, r *Report) {
	if err := git.CheckGit(); err != nil {
		r.add(Result{Check: "git", Severity: SeverityError, Message: err.Error()})
		return
	}
	r.add(Result{Check: "git", Message: "git found"})

	if err := git.CheckGitFlow(ctx); err != nil {
		r.add(Result{Check: "git-flow", Severity: SeverityError, Message: err.Error()})
		return
	}
	r.add(Result{Check: "git-flow", Message: "git-flow found"})
}

// checkConfig reports where the config comes from and whether a roster is set.
func checkConfig(cfg *config.Config, r *Report) {
	if path, err := config.Path(); err == nil {
		if _, err := os.Stat(path); err != nil {
			r.add(Result{Check: "config", Severity: SeverityWarning, Message: fmt.Sprintf("no config file at %s, using defaults (run 'relcut config init')", path)})
		} else {
			r.add(Result{Check: "config", Message: path})
		}
	}

	if len(cfg.Projects) == 0 {
		r.add(Result{Check: "projects", Severity: SeverityWarning, Message: "no projects configured; pass project names explicitly"})
	} else {
		r.add(Result{Check: "projects", Message: fmt.Sprintf("%d projects configured", len(cfg.Projects))})
	}
}

// checkWorkspace verifies the workspace directory and that no other run holds its lock.
func checkWorkspace(cfg *config.Config, r *Report) {
	info, err := os.Stat(cfg.Workspace)
	switch {
	case errors.Is(err, os.ErrNotExist):
		r.add(Result{Check: "workspace", Severity: SeverityWarning, Message: fmt.Sprintf("%s does not exist yet; it is created on first clone", cfg.Workspace)})
		return
	case err != nil:
		r.add(Result{Check: "workspace", Severity: SeverityError, Message: err.Error()})
		return
	case !info.IsDir():
		r.add(Result{Check: "workspace", Severity: SeverityError, Message: fmt.Sprintf("%s is not a directory", cfg.Workspace)})
		return
	}

	probe, err := os.CreateTemp(cfg.Workspace, ".relcut-doctor-*")
	if err != nil {
		r.add(Result{Check: "workspace", Severity: SeverityError, Message: fmt.Sprintf("%s is not writable: %v", cfg.Workspace, err)})
		return
	}
	probe.Close()
	os.Remove(probe.Name())

	l := lock.ForWorkspace(cfg.Workspace)
	if err := l.TryLock(); err != nil {
		if errors.Is(err, lock.ErrLocked) {
			r.add(Result{Check: "workspace", Severity: SeverityWarning, Message: "another relcut run is in progress"})
			return
		}
		r.add(Result{Check: "workspace", Severity: SeverityError, Message: err.Error()})
		return
	}
	l.Unlock()
	r.add(Result{Check: "workspace", Message: cfg.Workspace})
}

// checkProject runs the per-project checks. It stops at the first failure
// that makes the remaining checks meaningless.
func checkProject(ctx context.Context, cfg *config.Config, project string, r *Report) {
	dir := cfg.ProjectDir(project)

	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		res := Result{Check: "clone", Project: project, Severity: SeverityWarning, Message: fmt.Sprintf("not cloned at %s", dir)}
		if cfg.RemoteURL != "" {
			res.Fix = FixClone
		} else {
			res.Severity = SeverityError
			res.Message += " and remote_url is not configured"
		}
		r.add(res)
		return
	}
	if !git.IsRepo(ctx, dir) {
		r.add(Result{Check: "clone", Project: project, Severity: SeverityError, Message: fmt.Sprintf("%s is not a git repository", dir)})
		return
	}

	remotes, err := git.Remotes(ctx, dir)
	if err != nil {
		r.add(Result{Check: "remote", Project: project, Severity: SeverityError, Message: err.Error()})
		return
	}
	if !slices.Contains(remotes, cfg.Remote) {
		r.add(Result{Check: "remote", Project: project, Severity: SeverityError, Message: fmt.Sprintf("remote %q is not configured", cfg.Remote)})
		return
	}

	for _, branch := range []string{cfg.Branches.Master, cfg.Branches.Develop} {
		exists, err := git.BranchExists(ctx, dir, cfg.Remote, branch)
		if err != nil {
			r.add(Result{Check: "branches", Project: project, Severity: SeverityError, Message: err.Error()})
			return
		}
		if !exists {
			r.add(Result{Check: "branches", Project: project, Severity: SeverityError, Message: fmt.Sprintf("branch %s not found locally or on %s", branch, cfg.Remote)})
		}
	}

	clean, err := git.IsClean(ctx, dir)
	switch {
	case err != nil:
		r.add(Result{Check: "worktree", Project: project, Severity: SeverityError, Message: err.Error()})
	case !clean:
		r.add(Result{Check: "worktree", Project: project, Severity: SeverityError, Message: "uncommitted changes would block the release checkouts"})
	}

	checkVersionScript(cfg, project, dir, r)
}

// checkVersionScript warns about a version script that exists but cannot run.
func checkVersionScript(cfg *config.Config, project, dir string, r *Report) {
	projCfg, err := config.NewResolver(cfg).ForProject(dir)
	if err != nil {
		r.add(Result{Check: "config", Project: project, Severity: SeverityError, Message: err.Error()})
		return
	}
	script := projCfg.Version.Script
	present, err := hooks.ScriptPresent(dir, script)
	if err != nil || !present {
		return
	}
	info, err := os.Stat(filepath.Join(dir, script))
	if err != nil {
		return
	}
	if info.Mode().Perm()&0o111 == 0 {
		r.add(Result{Check: "version script", Project: project, Severity: SeverityWarning, Message: fmt.Sprintf("%s is not executable", script)})
	}
}
